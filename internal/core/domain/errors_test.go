package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsQuotaMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{"exact phrase", "Insufficient Balance", true},
		{"embedded in json", `{"error":"Insufficient Balance, please recharge"}`, true},
		{"lowercase", "insufficient balance", true},
		{"chinese phrase", "账户余额不足，请充值", true},
		{"unrelated error", "dataset not found", false},
		{"empty", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsQuotaMessage(tt.msg))
		})
	}
}

func TestIsUnsupportedFileMessage(t *testing.T) {
	assert.True(t, IsUnsupportedFileMessage("This type of file has not been supported yet!"))
	assert.False(t, IsUnsupportedFileMessage("file too large"))
}

func TestIsInvalidSessionMessage(t *testing.T) {
	tests := []struct {
		name string
		msg  string
		want bool
	}{
		{"session not found", "The session abc123 was not found", true},
		{"session does not exist", "session does not exist", true},
		{"invalid session", "Invalid session id", true},
		{"session mentioned without failure", "session created", false},
		{"other not found", "document not found", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, IsInvalidSessionMessage(tt.msg))
		})
	}
}
