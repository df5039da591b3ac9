package event

import (
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/polkiloo/foodcourt/internal/domain/model"
)

// Control frame names of the live channel.
const (
	NameIdentify   = "identify"
	NameIdentified = "identified"
	NamePing       = "ping"
	NamePong       = "pong"
)

// ErrUnknownEvent is returned when a frame carries a name outside the known set.
var ErrUnknownEvent = errors.New("unknown event")

// Frame is the JSON envelope exchanged over the live channel.
type Frame struct {
	Event string          `json:"event"`
	Data  json.RawMessage `json:"data,omitempty"`
}

// Identify is sent by a client right after connecting.
type Identify struct {
	Type   model.Role `json:"type"`
	UserID string     `json:"userId,omitempty"`
}

// Identified acknowledges Identify with the rooms the connection joined.
type Identified struct {
	Type   model.Role `json:"type"`
	UserID string     `json:"userId,omitempty"`
	Rooms  []string   `json:"rooms"`
}

// Probe is the payload of ping and pong frames.
type Probe struct {
	SentAt time.Time `json:"sentAt"`
}

// Encode serializes a domain event into a frame.
func Encode(e Event) ([]byte, error) {
	var payload any
	switch v := e.(type) {
	case NewOrderPlaced:
		payload = v.Order
	case OrderStatusChanged:
		payload = v.Order
	case PaymentSuccess:
		payload = v.Order
	case OrderDeleted:
		payload = v
	case NewFoodAdded:
		payload = v.Food
	case FoodUpdated:
		payload = v.Food
	case FoodDeleted:
		payload = v
	default:
		return nil, fmt.Errorf("%w: %T", ErrUnknownEvent, e)
	}
	return EncodeFrame(e.Name(), payload)
}

// EncodeFrame wraps an arbitrary payload into a named frame.
func EncodeFrame(name string, payload any) ([]byte, error) {
	frame := Frame{Event: name}
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return nil, fmt.Errorf("encode %s: %w", name, err)
		}
		frame.Data = data
	}
	return json.Marshal(frame)
}

// DecodeFrame parses the envelope without interpreting the payload.
func DecodeFrame(raw []byte) (Frame, error) {
	var frame Frame
	if err := json.Unmarshal(raw, &frame); err != nil {
		return Frame{}, fmt.Errorf("decode frame: %w", err)
	}
	if frame.Event == "" {
		return Frame{}, fmt.Errorf("%w: empty name", ErrUnknownEvent)
	}
	return frame, nil
}

// Decode turns a domain frame back into its variant.
func Decode(frame Frame) (Event, error) {
	switch frame.Event {
	case NameNewOrderPlaced:
		var o model.Order
		if err := unmarshal(frame, &o); err != nil {
			return nil, err
		}
		return NewOrderPlaced{Order: o}, nil
	case NameOrderStatusChanged:
		var o model.Order
		if err := unmarshal(frame, &o); err != nil {
			return nil, err
		}
		return OrderStatusChanged{Order: o}, nil
	case NamePaymentSuccess:
		var o model.Order
		if err := unmarshal(frame, &o); err != nil {
			return nil, err
		}
		return PaymentSuccess{Order: o}, nil
	case NameOrderDeleted:
		var d OrderDeleted
		if err := unmarshal(frame, &d); err != nil {
			return nil, err
		}
		return d, nil
	case NameNewFoodAdded:
		var f model.Food
		if err := unmarshal(frame, &f); err != nil {
			return nil, err
		}
		return NewFoodAdded{Food: f}, nil
	case NameFoodUpdated:
		var f model.Food
		if err := unmarshal(frame, &f); err != nil {
			return nil, err
		}
		return FoodUpdated{Food: f}, nil
	case NameFoodDeleted:
		var d FoodDeleted
		if err := unmarshal(frame, &d); err != nil {
			return nil, err
		}
		return d, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownEvent, frame.Event)
}

func unmarshal(frame Frame, dst any) error {
	if len(frame.Data) == 0 {
		return fmt.Errorf("decode %s: empty payload", frame.Event)
	}
	if err := json.Unmarshal(frame.Data, dst); err != nil {
		return fmt.Errorf("decode %s: %w", frame.Event, err)
	}
	return nil
}
