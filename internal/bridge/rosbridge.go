// Copyright (c) 2026 Daniel Alarcon Rubio / Relabs Tech
// SPDX-License-Identifier: MIT
// See LICENSE file for full license text

package bridge

import (
	"fmt"

	"github.com/gorilla/websocket"
)

// Vector3 mirrors geometry_msgs/Vector3.
type Vector3 struct {
	X float64 `json:"x"`
	Y float64 `json:"y"`
	Z float64 `json:"z"`
}

// Temperature mirrors sensor_msgs/Temperature with the header left to
// rosbridge defaults.
type Temperature struct {
	Temperature float64 `json:"temperature"` // °C
	Variance    float64 `json:"variance"`    // 0 = unknown
}

// rosbridge protocol ops, see
// https://github.com/RobotWebTools/rosbridge_suite
type advertiseOp struct {
	Op    string `json:"op"` // "advertise"
	ID    string `json:"id,omitempty"`
	Topic string `json:"topic"`
	Type  string `json:"type"`
}

type publishOp struct {
	Op    string `json:"op"` // "publish"
	ID    string `json:"id,omitempty"`
	Topic string `json:"topic"`
	Msg   any    `json:"msg"`
}

// Client talks the rosbridge protocol over a persistent websocket.
// It is not safe for concurrent use; the producer owns it exclusively.
type Client struct {
	conn *websocket.Conn
}

// Dial connects to a rosbridge server, e.g. "ws://192.168.1.10:9090".
func Dial(url string) (*Client, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("rosbridge dial %s: %w", url, err)
	}
	return &Client{conn: conn}, nil
}

// Advertise registers a topic and its ROS message type with the bridge.
// Must be sent before the first publish on that topic.
func (c *Client) Advertise(id, topic, msgType string) error {
	if err := c.conn.WriteJSON(advertiseOp{Op: "advertise", ID: id, Topic: topic, Type: msgType}); err != nil {
		return fmt.Errorf("rosbridge advertise %s: %w", topic, err)
	}
	return nil
}

// Publish sends one message on a previously advertised topic.
func (c *Client) Publish(id, topic string, msg any) error {
	if err := c.conn.WriteJSON(publishOp{Op: "publish", ID: id, Topic: topic, Msg: msg}); err != nil {
		return fmt.Errorf("rosbridge publish %s: %w", topic, err)
	}
	return nil
}

// Close closes the websocket connection.
func (c *Client) Close() error {
	return c.conn.Close()
}
