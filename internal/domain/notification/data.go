package notification

import (
	jmespath "github.com/jmespath-community/go-jmespath"
)

// Payload is the closed set of known notification data shapes. Producers
// send an open key/value map; DecodePayload narrows it to a typed shape per
// notification type, falling back to OpaquePayload for anything unknown so
// forward compatibility is preserved.
type Payload interface {
	// OpenTarget returns the in-app path this notification should open,
	// or "" when the payload carries no linked resource.
	OpenTarget() string
}

// MessagePayload links a notification to a conversation.
type MessagePayload struct {
	ConversationID string
}

func (p MessagePayload) OpenTarget() string {
	if p.ConversationID == "" {
		return ""
	}
	return "/dashboard/messages/" + p.ConversationID
}

// BookingPayload links a notification to a booking.
type BookingPayload struct {
	BookingID string
}

func (p BookingPayload) OpenTarget() string {
	if p.BookingID == "" {
		return ""
	}
	return "/bookings/" + p.BookingID
}

// ReviewPayload links a notification to a reviewed property.
type ReviewPayload struct {
	PropertyID string
	ReviewID   string
}

func (p ReviewPayload) OpenTarget() string {
	if p.PropertyID == "" {
		return ""
	}
	return "/property/" + p.PropertyID + "/reviews"
}

// PaymentPayload links a notification to a payment on a booking.
type PaymentPayload struct {
	BookingID string
	PaymentID string
}

func (p PaymentPayload) OpenTarget() string {
	if p.BookingID == "" {
		return ""
	}
	return "/bookings/" + p.BookingID + "/payments"
}

// OpaquePayload preserves an unrecognized data map. Its only core-relevant
// field is an optional linked-resource identifier, searched for under the
// common key names producers use.
type OpaquePayload struct {
	Data map[string]any
}

// opaqueLinkExpr locates a generic linked-resource id in unknown payloads.
// JMESPath keeps the lookup declarative and tolerant of nesting.
const opaqueLinkExpr = "link_id || resource_id || resource.id || id"

func (p OpaquePayload) OpenTarget() string {
	if stringField(p.Data, opaqueLinkExpr) == "" {
		return ""
	}
	// A bare resource id has no specific page; open the generic
	// authenticated landing page.
	return "/dashboard"
}

// DecodePayload narrows an open data map into the typed payload for the
// given notification type. A nil or empty map decodes to an empty
// OpaquePayload; unknown types always decode opaque.
func DecodePayload(t Type, data map[string]any) Payload {
	switch t.Normalize() {
	case TypeMessage:
		return MessagePayload{ConversationID: stringField(data, "conversation_id || conversation.id")}
	case TypeBooking:
		return BookingPayload{BookingID: stringField(data, "booking_id || booking.id")}
	case TypeReview:
		return ReviewPayload{
			PropertyID: stringField(data, "property_id || property.id"),
			ReviewID:   stringField(data, "review_id || review.id"),
		}
	case TypePayment:
		return PaymentPayload{
			BookingID: stringField(data, "booking_id || booking.id"),
			PaymentID: stringField(data, "payment_id || payment.id"),
		}
	default:
		return OpaquePayload{Data: data}
	}
}

// OpenTarget computes the default "open" path for a notification,
// falling back to the dashboard when the payload carries no target.
func (n Notification) OpenTarget() string {
	if target := DecodePayload(n.Type, n.Data).OpenTarget(); target != "" {
		return target
	}
	return "/dashboard"
}

// stringField evaluates a JMESPath expression over data and returns the
// result when it is a non-empty string, "" otherwise.
func stringField(data map[string]any, expr string) string {
	if len(data) == 0 {
		return ""
	}
	v, err := jmespath.Search(expr, data)
	if err != nil {
		return ""
	}
	s, ok := v.(string)
	if !ok {
		return ""
	}
	return s
}
