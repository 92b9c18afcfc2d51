package chat

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReplyPrecedence(t *testing.T) {
	r := NewResponder(DefaultRules())
	tests := []struct {
		in   string
		want string
	}{
		{"How does a SIP work?", "💡 SIP helps you invest regularly."},
		{"tax on my sip", "💡 SIP helps"},
		{"budget for tax", "💡 Tax saving routes"},
		{"Budget tips", "💡 Try the 50/30/20 rule"},
		{"should I invest in a loan?", "💡 Diversify"},
		{"car loan", "💡 Keep EMIs"},
		{"hello", "👋 Hello!"},
		{"what is this", "👋 Hello!"},
		{"weather today", "🤖 I'm a demo AI."},
	}
	for _, tt := range tests {
		got, ok := r.Reply(tt.in)
		require.True(t, ok, tt.in)
		assert.Contains(t, got, tt.want, tt.in)
	}
}

func TestReplyBlank(t *testing.T) {
	_, ok := NewResponder(DefaultRules()).Reply("   ")
	assert.False(t, ok)
}

func TestLoadRulesFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
fallback: "nope"
rules:
  - keywords: [EMI]
    reply: "pay it"
`), 0o600))

	rs, err := LoadRules(path)
	require.NoError(t, err)
	r := NewResponder(rs)
	got, _ := r.Reply("my emi is high")
	assert.Equal(t, "pay it", got)
	got, _ = r.Reply("sip")
	assert.Equal(t, "nope", got)

	_, err = ParseRules([]byte("rules: []"))
	assert.Error(t, err)
	_, err = LoadRules(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)
}

func TestRespondHonorsCancellation(t *testing.T) {
	r := NewResponder(DefaultRules(), WithTypingDelay(time.Hour))
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := r.Respond(ctx, "sip")
	assert.ErrorIs(t, err, context.Canceled)

	r = NewResponder(DefaultRules(), WithTypingDelay(0))
	reply, err := r.Respond(context.Background(), "loan")
	require.NoError(t, err)
	assert.Contains(t, reply, "EMIs")
}

func TestRevealEmitsGrowingPrefixes(t *testing.T) {
	r := NewResponder(DefaultRules(), WithRevealInterval(0))
	var got []string
	err := r.Reveal(context.Background(), "₹5 ok", func(p string) error {
		got = append(got, p)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"₹", "₹5", "₹5 ", "₹5 o", "₹5 ok"}, got)
}

func TestRevealStopsOnEmitError(t *testing.T) {
	r := NewResponder(DefaultRules(), WithRevealInterval(0))
	stop := errors.New("client gone")
	calls := 0
	err := r.Reveal(context.Background(), "hello", func(string) error {
		calls++
		return stop
	})
	assert.ErrorIs(t, err, stop)
	assert.Equal(t, 1, calls)
}
