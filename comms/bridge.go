package comms

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/gorilla/websocket"

	"github.com/adnanmunawar/surgical-robotics-challenge/haptics"
)

// Topic layout of the 1.x dVRK interface. Per-arm topics hang off the arm's
// prefix; the footpedals are shared by every arm on the console.
const (
	topicPoseSuffix    = "position_cartesian_current"
	topicTwistSuffix   = "twist_body_current"
	topicGripperSuffix = "state_gripper_current"
	topicPoseCmd       = "set_position_cartesian"
	topicWrenchCmd     = "set_wrench_body"

	TopicClutch = "/dvrk/footpedals/clutch"
	TopicCoag   = "/dvrk/footpedals/coag"
)

// rosbridgeOp is the protocol envelope: every frame on the socket carries an
// op discriminator plus topic and payload.
type rosbridgeOp struct {
	Op    string          `json:"op"`
	Topic string          `json:"topic,omitempty"`
	Type  string          `json:"type,omitempty"`
	Msg   json.RawMessage `json:"msg,omitempty"`
}

// Handler receives the raw payload of one inbound topic frame along with its
// local receipt time.
type Handler func(msg json.RawMessage, stamp time.Time)

// Bridge speaks the rosbridge JSON protocol over one websocket. A single
// reader goroutine dispatches inbound frames to topic handlers; writes are
// serialized behind a mutex since the websocket allows one writer at a time.
type Bridge struct {
	conn *websocket.Conn
	wmu  sync.Mutex

	hmu      sync.RWMutex
	handlers map[string][]Handler

	now func() time.Time
}

// Dial connects to a rosbridge endpoint and starts the read loop.
func Dial(url string) (*Bridge, error) {
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		return nil, fmt.Errorf("dial bridge %s: %w", url, err)
	}
	return NewBridge(conn), nil
}

// NewBridge wraps an established connection.
func NewBridge(conn *websocket.Conn) *Bridge {
	b := &Bridge{
		conn:     conn,
		handlers: make(map[string][]Handler),
		now:      time.Now,
	}
	go b.listen()
	return b
}

func (b *Bridge) Close() error {
	return b.conn.Close()
}

func (b *Bridge) send(op rosbridgeOp) error {
	b.wmu.Lock()
	defer b.wmu.Unlock()
	return b.conn.WriteJSON(op)
}

// Subscribe registers a handler and announces the subscription upstream on
// the first handler for a topic. The footpedal topics are shared, so a topic
// may fan out to every bound device.
func (b *Bridge) Subscribe(topic, msgType string, h Handler) error {
	b.hmu.Lock()
	first := len(b.handlers[topic]) == 0
	b.handlers[topic] = append(b.handlers[topic], h)
	b.hmu.Unlock()

	if !first {
		return nil
	}
	return b.send(rosbridgeOp{Op: "subscribe", Topic: topic, Type: msgType})
}

// Advertise announces an outbound topic before the first publish.
func (b *Bridge) Advertise(topic, msgType string) error {
	return b.send(rosbridgeOp{Op: "advertise", Topic: topic, Type: msgType})
}

// Publish sends one message on an advertised topic, fire and forget.
func (b *Bridge) Publish(topic string, msg interface{}) error {
	raw, err := json.Marshal(msg)
	if err != nil {
		return fmt.Errorf("encode %s: %w", topic, err)
	}
	return b.send(rosbridgeOp{Op: "publish", Topic: topic, Msg: raw})
}

func (b *Bridge) listen() {
	for {
		_, raw, err := b.conn.ReadMessage()
		if err != nil {
			log.Printf("bridge read: %v", err)
			return
		}

		var op rosbridgeOp
		if err := json.Unmarshal(raw, &op); err != nil {
			log.Printf("bridge decode: %v", err)
			continue
		}
		if op.Op != "publish" {
			continue
		}

		b.hmu.RLock()
		hs := b.handlers[op.Topic]
		b.hmu.RUnlock()
		stamp := b.now()
		for _, h := range hs {
			h(op.Msg, stamp)
		}
	}
}

// devicePublisher routes a device's outbound commands onto its topics.
type devicePublisher struct {
	bridge *Bridge
	prefix string
}

// NewDevicePublisher advertises the command topics for the arm at prefix and
// returns the publisher the device record sends through.
func NewDevicePublisher(b *Bridge, prefix string) (haptics.Publisher, error) {
	if err := b.Advertise(prefix+topicPoseCmd, "geometry_msgs/Pose"); err != nil {
		return nil, err
	}
	if err := b.Advertise(prefix+topicWrenchCmd, "geometry_msgs/Wrench"); err != nil {
		return nil, err
	}
	return &devicePublisher{bridge: b, prefix: prefix}, nil
}

func (p *devicePublisher) PublishPose(f haptics.Frame) error {
	return p.bridge.Publish(p.prefix+topicPoseCmd, PoseFromFrame(f))
}

func (p *devicePublisher) PublishWrench(w haptics.Wrench) error {
	return p.bridge.Publish(p.prefix+topicWrenchCmd, WrenchFromCore(w))
}

// BindDevice subscribes the five inbound topics for the arm at prefix and
// routes them into the device record. Decode failures are logged and the
// frame dropped; the next frame replaces whatever was missed.
func (b *Bridge) BindDevice(prefix string, m *haptics.MTM) error {
	subs := []struct {
		topic   string
		msgType string
		handler Handler
	}{
		{prefix + topicPoseSuffix, "geometry_msgs/PoseStamped", func(raw json.RawMessage, stamp time.Time) {
			var msg PoseStampedMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Printf("%s pose decode: %v", m.Name, err)
				return
			}
			m.OnPose(FrameFromPose(msg.Pose), stamp)
		}},
		{prefix + topicTwistSuffix, "geometry_msgs/TwistStamped", func(raw json.RawMessage, stamp time.Time) {
			var msg TwistStampedMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Printf("%s twist decode: %v", m.Name, err)
				return
			}
			m.OnTwist(TwistFromMsg(msg.Twist))
		}},
		{prefix + topicGripperSuffix, "sensor_msgs/JointState", func(raw json.RawMessage, stamp time.Time) {
			var msg JointStateMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Printf("%s gripper decode: %v", m.Name, err)
				return
			}
			if len(msg.Position) == 0 {
				return
			}
			m.OnGripper(msg.Position[0])
		}},
		{TopicClutch, "sensor_msgs/Joy", func(raw json.RawMessage, stamp time.Time) {
			var msg JoyMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Printf("%s clutch decode: %v", m.Name, err)
				return
			}
			m.OnClutch(msg.Pressed(), stamp)
		}},
		{TopicCoag, "sensor_msgs/Joy", func(raw json.RawMessage, stamp time.Time) {
			var msg JoyMsg
			if err := json.Unmarshal(raw, &msg); err != nil {
				log.Printf("%s coag decode: %v", m.Name, err)
				return
			}
			m.OnCoag(msg.Pressed(), stamp)
		}},
	}

	for _, s := range subs {
		if err := b.Subscribe(s.topic, s.msgType, s.handler); err != nil {
			return fmt.Errorf("subscribe %s: %w", s.topic, err)
		}
	}
	return nil
}
