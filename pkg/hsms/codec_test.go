package hsms

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

// Tests the HSMS message codec
//
// Testing Strategy:
//
// Decode frame bodies, either literal or produced by the message
// constructors, and compare against the expected message. Encoding is
// covered by the message tests; here the focus is the decode direction and
// the round-trip property decode(encode(msg)) == msg.
//
// Partitions:
//
// - session type: data, each control type, undefined
// - presentation type: 0, non-zero
// - body length: < 10, 10, > 10
// - data message: wait bit set/clear, with/without text

func TestDecode_DataMessage(t *testing.T) {
	body := []byte{0xFF, 0xFF, 0x81, 1, 0, 0, 0, 0, 0, 0x10}
	msg, err := Decode(body)
	assert.NoError(t, err)

	data, ok := msg.(*DataMessage)
	assert.True(t, ok)
	assert.Equal(t, byte(1), data.StreamCode())
	assert.Equal(t, byte(1), data.FunctionCode())
	assert.True(t, data.WaitBit())
	assert.Equal(t, MessageID{Session: 0xFFFF, System: 0x10}, data.ID())
	assert.Empty(t, data.Text())
}

func TestDecode_DataMessageWithText(t *testing.T) {
	body := []byte{0, 1, 6, 12, 0, 0, 0, 0, 0, 2, 0b01000001, 2, 'o', 'k'}
	msg, err := Decode(body)
	assert.NoError(t, err)

	data, ok := msg.(*DataMessage)
	assert.True(t, ok)
	assert.Equal(t, byte(6), data.StreamCode())
	assert.Equal(t, byte(12), data.FunctionCode())
	assert.False(t, data.WaitBit())
	assert.Equal(t, []byte{0b01000001, 2, 'o', 'k'}, data.Text())
}

func TestDecode_ControlMessages(t *testing.T) {
	tests := []struct {
		msg  *ControlMessage
		typ  string
	}{
		{NewSelectReq(0xFFFF, 1), "select.req"},
		{NewSelectRsp(NewSelectReq(0xFFFF, 1), SelectStatusOk), "select.rsp"},
		{NewDeselectReq(0xFFFF, 2), "deselect.req"},
		{NewDeselectRsp(NewDeselectReq(0xFFFF, 2), DeselectStatusOk), "deselect.rsp"},
		{NewLinktestReq(3), "linktest.req"},
		{NewLinktestRsp(NewLinktestReq(3)), "linktest.rsp"},
		{NewRejectReq(0xFFFF, 0, 0, 4, RejectReasonEntityNotSelected), "reject.req"},
		{NewSeparateReq(0xFFFF, 5), "separate.req"},
	}

	for _, tt := range tests {
		body := tt.msg.ToBytes()[4:]
		decoded, err := Decode(body)
		assert.NoError(t, err, tt.typ)
		assert.Equal(t, tt.msg, decoded, tt.typ)
		assert.Equal(t, tt.msg.ToBytes(), decoded.ToBytes(), tt.typ)
	}
}

func TestDecode_DataMessageRoundTrip(t *testing.T) {
	msgs := []*DataMessage{
		NewDataMessage(MessageID{Session: 0xFFFF, System: 0x10}, 1, 1, true, nil),
		NewDataMessage(MessageID{Session: 0, System: 0xFFFFFFFF}, 127, 255, true, []byte{0x01, 0x02}),
		NewDataMessage(MessageID{Session: 0x1234, System: 0}, 9, 0, false, nil),
	}

	for _, msg := range msgs {
		decoded, err := Decode(msg.ToBytes()[4:])
		assert.NoError(t, err)
		assert.Equal(t, msg, decoded)
		assert.Equal(t, msg.ToBytes(), decoded.ToBytes())
	}
}

func TestDecode_UndefinedMessages(t *testing.T) {
	// Unsupported presentation type.
	msg, err := Decode([]byte{0xFF, 0xFF, 0, 0, 1, 0, 0, 0, 0, 1})
	assert.NoError(t, err)
	undefined, ok := msg.(*UndefinedMessage)
	assert.True(t, ok)
	assert.Equal(t, byte(1), undefined.PType())
	assert.Equal(t, byte(0), undefined.SType())
	assert.Equal(t, MessageID{Session: 0xFFFF, System: 1}, undefined.ID())

	// Undefined session type.
	msg, err = Decode([]byte{0xFF, 0xFF, 0, 0, 0, 8, 0, 0, 0, 1})
	assert.NoError(t, err)
	undefined, ok = msg.(*UndefinedMessage)
	assert.True(t, ok)
	assert.Equal(t, byte(8), undefined.SType())
	assert.Equal(t, []byte{0, 0, 0, 10, 0xFF, 0xFF, 0, 0, 0, 8, 0, 0, 0, 1}, undefined.ToBytes())
}

func TestDecode_WaitBitMaskedOnReply(t *testing.T) {
	msg, err := Decode([]byte{0xFF, 0xFF, 0x81, 2, 0, 0, 0, 0, 0, 1})
	assert.NoError(t, err)

	data, ok := msg.(*DataMessage)
	assert.True(t, ok)
	assert.False(t, data.WaitBit())
}

func TestDecode_Malformed(t *testing.T) {
	tests := []struct {
		name string
		body []byte
	}{
		{"too short", []byte{0, 0, 0}},
		{"empty", []byte{}},
		{"control with text", []byte{0xFF, 0xFF, 0, 0, 0, 1, 0, 0, 0, 1, 0xAA}},
	}

	for _, tt := range tests {
		msg, err := Decode(tt.body)
		assert.Nil(t, msg, tt.name)

		var formatErr *FormatError
		assert.ErrorAs(t, err, &formatErr, tt.name)
	}
}
