// Package chat is a canned keyword responder for the demo assistant.
// It does not call any model; replies come from a fixed rule table.
package chat

import (
	"context"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	DefaultTypingDelay    = 700 * time.Millisecond
	DefaultRevealInterval = 20 * time.Millisecond
)

//go:embed rules.yaml
var defaultRules []byte

type Rule struct {
	Keywords []string `yaml:"keywords"`
	Reply    string   `yaml:"reply"`
}

type RuleSet struct {
	Fallback string `yaml:"fallback"`
	Rules    []Rule `yaml:"rules"`
}

// ParseRules decodes a YAML rule table. Keywords are lowercased.
func ParseRules(b []byte) (RuleSet, error) {
	var rs RuleSet
	if err := yaml.Unmarshal(b, &rs); err != nil {
		return RuleSet{}, fmt.Errorf("parse chat rules: %w", err)
	}
	if strings.TrimSpace(rs.Fallback) == "" {
		return RuleSet{}, errors.New("parse chat rules: fallback reply is required")
	}
	for i, r := range rs.Rules {
		if len(r.Keywords) == 0 || strings.TrimSpace(r.Reply) == "" {
			return RuleSet{}, fmt.Errorf("parse chat rules: rule %d needs keywords and a reply", i)
		}
		for j, k := range r.Keywords {
			rs.Rules[i].Keywords[j] = strings.ToLower(strings.TrimSpace(k))
		}
	}
	return rs, nil
}

// DefaultRules returns the built-in table.
func DefaultRules() RuleSet {
	rs, err := ParseRules(defaultRules)
	if err != nil {
		panic(err)
	}
	return rs
}

// LoadRules reads a rule file, or the built-in table when path is empty.
func LoadRules(path string) (RuleSet, error) {
	if path == "" {
		return DefaultRules(), nil
	}
	b, err := os.ReadFile(path)
	if err != nil {
		return RuleSet{}, fmt.Errorf("read chat rules: %w", err)
	}
	return ParseRules(b)
}

type Responder struct {
	rules          RuleSet
	typingDelay    time.Duration
	revealInterval time.Duration
}

type Option func(*Responder)

func WithTypingDelay(d time.Duration) Option {
	return func(r *Responder) { r.typingDelay = d }
}

func WithRevealInterval(d time.Duration) Option {
	return func(r *Responder) { r.revealInterval = d }
}

func NewResponder(rules RuleSet, opts ...Option) *Responder {
	r := &Responder{
		rules:          rules,
		typingDelay:    DefaultTypingDelay,
		revealInterval: DefaultRevealInterval,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Reply picks the canned answer for text. Blank input has no reply.
// Keywords match as plain substrings, so "hi" also matches "this".
func (r *Responder) Reply(text string) (string, bool) {
	msg := strings.ToLower(strings.TrimSpace(text))
	if msg == "" {
		return "", false
	}
	for _, rule := range r.rules.Rules {
		for _, k := range rule.Keywords {
			if strings.Contains(msg, k) {
				return rule.Reply, true
			}
		}
	}
	return r.rules.Fallback, true
}

// Respond waits the typing delay and returns the reply.
func (r *Responder) Respond(ctx context.Context, text string) (string, error) {
	reply, ok := r.Reply(text)
	if !ok {
		return "", nil
	}
	if err := sleep(ctx, r.typingDelay); err != nil {
		return "", err
	}
	return reply, nil
}

// Reveal calls emit with a growing prefix of reply, one rune per interval,
// ending with the full text.
func (r *Responder) Reveal(ctx context.Context, reply string, emit func(partial string) error) error {
	for i := range reply {
		if i == 0 {
			continue
		}
		if err := emit(reply[:i]); err != nil {
			return err
		}
		if err := sleep(ctx, r.revealInterval); err != nil {
			return err
		}
	}
	if reply == "" {
		return nil
	}
	return emit(reply)
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
