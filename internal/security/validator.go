// Package security implements the input safety gate that screens user
// messages for prompt injection and off-topic requests before retrieval.
package security

import (
	"fmt"
	"strings"
	"sync"
	"unicode"

	"go.uber.org/zap"

	"github.com/hyperjump/hotelrag/pkg/utils"
)

// Block reasons.
const (
	ReasonInvalidFormat = "Invalid input format"
	ReasonTooLong       = "Message too long"
	ReasonInvalidChars  = "Invalid characters detected"
	ReasonInjection     = "Potential prompt injection detected"
)

// DefaultMaxLength is the message length cap in UTF-16 code units.
const DefaultMaxLength = 2000

// Verdict is the outcome of validating one message.
type Verdict struct {
	Blocked  bool   `json:"blocked"`
	Reason   string `json:"reason,omitempty"`
	Pattern  string `json:"pattern,omitempty"`
	Category string `json:"category,omitempty"`
}

// OffTopicReason returns the block reason for an off-topic category.
func OffTopicReason(category string) string {
	return fmt.Sprintf("Off-topic request detected (%s)", category)
}

// Stats is a snapshot of the validator counters.
type Stats struct {
	TotalValidations int64  `json:"total_validations"`
	Blocked          int64  `json:"blocked"`
	Allowed          int64  `json:"allowed"`
	BlockRate        string `json:"block_rate"`
}

// InputValidator screens messages. Rule tables are fixed at construction;
// the only shared mutable state is the counters, guarded by mu.
type InputValidator struct {
	maxLength  int
	injections []injectionRule
	topics     []topicRule
	logger     *zap.Logger

	mu      sync.Mutex
	total   int64
	blocked int64
	allowed int64
}

// Option configures an InputValidator.
type Option func(*InputValidator)

// WithLogger sets the logger used to report blocked messages.
func WithLogger(logger *zap.Logger) Option {
	return func(v *InputValidator) {
		v.logger = utils.LoggerOrNop(logger)
	}
}

// WithMaxLength overrides the length cap. Non-positive values are ignored.
func WithMaxLength(n int) Option {
	return func(v *InputValidator) {
		if n > 0 {
			v.maxLength = n
		}
	}
}

// NewInputValidator creates a validator with the built-in rule tables.
func NewInputValidator(opts ...Option) *InputValidator {
	v := &InputValidator{
		maxLength:  DefaultMaxLength,
		injections: defaultInjectionRules(),
		topics:     defaultTopicRules(),
		logger:     zap.NewNop(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// Validate screens a message of any type. Anything but a string is blocked
// as invalid input. Checks run in order and stop at the first block.
func (v *InputValidator) Validate(message any) Verdict {
	var verdict Verdict
	switch m := message.(type) {
	case string:
		verdict = v.check(m)
	case *string:
		if m == nil {
			verdict = Verdict{Blocked: true, Reason: ReasonInvalidFormat}
		} else {
			verdict = v.check(*m)
		}
	default:
		verdict = Verdict{Blocked: true, Reason: ReasonInvalidFormat}
	}
	v.record(verdict)
	return verdict
}

// ValidateString is Validate for callers that already hold a string.
func (v *InputValidator) ValidateString(message string) Verdict {
	verdict := v.check(message)
	v.record(verdict)
	return verdict
}

func (v *InputValidator) check(message string) Verdict {
	if isBlank(message) {
		return Verdict{}
	}

	if utils.UTF16Len(message) > v.maxLength {
		return Verdict{Blocked: true, Reason: ReasonTooLong}
	}
	if hasControlChars(message) {
		return Verdict{Blocked: true, Reason: ReasonInvalidChars}
	}

	for _, rule := range v.injections {
		if rule.matches(message) {
			v.logger.Info("blocked prompt injection",
				zap.String("group", rule.group),
				zap.String("pattern", rule.Pattern()))
			return Verdict{Blocked: true, Reason: ReasonInjection, Pattern: rule.Pattern()}
		}
	}

	if category := v.offTopicCategory(message); category != "" {
		v.logger.Info("blocked off-topic request", zap.String("category", category))
		return Verdict{Blocked: true, Reason: OffTopicReason(category), Category: category}
	}

	return Verdict{}
}

// offTopicCategory returns the first matching off-topic category, or "" when
// none matches or the message carries hotel context.
func (v *InputValidator) offTopicCategory(message string) string {
	lower := strings.ToLower(message)
	if containsAny(lower, hotelKeywords) {
		return ""
	}
	for _, t := range v.topics {
		if t.re.MatchString(message) {
			return t.category
		}
	}
	return ""
}

func (v *InputValidator) record(verdict Verdict) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if verdict.Blocked {
		v.blocked++
	} else {
		v.allowed++
	}
	v.total++
}

// Stats returns a snapshot of the counters.
func (v *InputValidator) Stats() Stats {
	v.mu.Lock()
	s := Stats{
		TotalValidations: v.total,
		Blocked:          v.blocked,
		Allowed:          v.allowed,
	}
	v.mu.Unlock()
	s.BlockRate = "0%"
	if s.TotalValidations > 0 {
		s.BlockRate = fmt.Sprintf("%.2f%%", float64(s.Blocked)/float64(s.TotalValidations)*100)
	}
	return s
}

// ResetStats zeroes the counters.
func (v *InputValidator) ResetStats() {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.total, v.blocked, v.allowed = 0, 0, 0
}

// MaxLength returns the configured length cap.
func (v *InputValidator) MaxLength() int { return v.maxLength }

func isBlank(s string) bool {
	return strings.TrimFunc(s, func(r rune) bool {
		return unicode.IsSpace(r) || r == '\uFEFF'
	}) == ""
}

// hasControlChars reports C0 control characters other than tab, newline and
// carriage return.
func hasControlChars(s string) bool {
	for i := 0; i < len(s); i++ {
		c := s[i]
		if c <= 0x08 || c == 0x0B || c == 0x0C || (c >= 0x0E && c <= 0x1F) {
			return true
		}
	}
	return false
}
