package orchestrator

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"sync"
	"time"

	einomodel "github.com/cloudwego/eino/components/model"
	"github.com/cloudwego/eino/schema"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	contractx "github.com/calendon/schedpilot/agent/contract"
	promptx "github.com/calendon/schedpilot/agent/prompt"
	toolx "github.com/calendon/schedpilot/agent/tool"
)

// State names the phases of one SendMessage call. Idle is entered at
// creation and after Reset; TextDone is terminal for a call.
type State string

const (
	StateIdle             State = "idle"
	StateAwaitingModel    State = "awaiting_model"
	StateDispatchingTools State = "dispatching_tools"
	StateTextDone         State = "text_done"
)

// DefaultMaxToolRounds bounds the tool-call round-trips per message. A model
// that never converges to text terminates the turn with a synthetic reply
// instead of looping forever.
const DefaultMaxToolRounds = 10

const loopLimitReply = "I wasn't able to finish that request: it required more tool calls than a single message allows. Please try again with a simpler or more specific request."

const emptyReplyFallback = "Done!"

// Session is the per-conversation state machine mediating model turns and
// tool turns. mu serializes turns: a concurrent SendMessage call for the
// same session is rejected with ErrSessionBusy rather than interleaved.
// stateMu guards the observable state and history so accessors stay
// responsive while a turn is in flight.
type Session struct {
	id        string
	createdAt time.Time

	mu sync.Mutex

	stateMu sync.RWMutex
	state   State
	history []*schema.Message

	model         einomodel.ToolCallingChatModel
	registry      *toolx.Registry
	systemPrompt  func(time.Time) string
	now           func() time.Time
	maxToolRounds int
	logger        zerolog.Logger
}

// Option customizes a Session.
type Option func(*Session)

func WithMaxToolRounds(n int) Option {
	return func(s *Session) {
		if n > 0 {
			s.maxToolRounds = n
		}
	}
}

func WithClock(now func() time.Time) Option {
	return func(s *Session) {
		if now != nil {
			s.now = now
		}
	}
}

func WithSystemPrompt(render func(time.Time) string) Option {
	return func(s *Session) {
		if render != nil {
			s.systemPrompt = render
		}
	}
}

func WithLogger(logger zerolog.Logger) Option {
	return func(s *Session) {
		s.logger = logger
	}
}

// NewSession binds the registry's tool declarations to the chat model and
// returns an idle session.
func NewSession(id string, chatModel einomodel.ToolCallingChatModel, registry *toolx.Registry, opts ...Option) (*Session, error) {
	if strings.TrimSpace(id) == "" {
		return nil, fmt.Errorf("%w: session id is empty", contractx.ErrValidation)
	}
	if chatModel == nil {
		return nil, fmt.Errorf("%w: chat model is required", contractx.ErrValidation)
	}
	if registry == nil {
		return nil, fmt.Errorf("%w: tool registry is required", contractx.ErrValidation)
	}

	s := &Session{
		id:            id,
		state:         StateIdle,
		registry:      registry,
		systemPrompt:  promptx.System,
		now:           time.Now,
		maxToolRounds: DefaultMaxToolRounds,
		logger:        log.Logger,
	}
	for _, opt := range opts {
		if opt != nil {
			opt(s)
		}
	}
	s.createdAt = s.now()
	s.logger = s.logger.With().Str("session_id", id).Logger()

	bound, err := chatModel.WithTools(registry.Infos())
	if err != nil {
		return nil, fmt.Errorf("%w: bind tools: %v", contractx.ErrModelInvoke, err)
	}
	s.model = bound

	return s, nil
}

func (s *Session) ID() string           { return s.id }
func (s *Session) CreatedAt() time.Time { return s.createdAt }

// State returns the machine's current phase.
func (s *Session) State() State {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return s.state
}

// History returns a copy of the recorded turns.
func (s *Session) History() []*schema.Message {
	s.stateMu.RLock()
	defer s.stateMu.RUnlock()
	return append([]*schema.Message(nil), s.history...)
}

// Reset discards the conversation history and returns the session to Idle.
// It always succeeds; if a SendMessage call is in flight it waits for it.
func (s *Session) Reset() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.stateMu.Lock()
	s.history = nil
	s.state = StateIdle
	s.stateMu.Unlock()

	s.logger.Debug().Msg("session reset")
}

func (s *Session) setState(st State) {
	s.stateMu.Lock()
	s.state = st
	s.stateMu.Unlock()
}

func (s *Session) commit(working []*schema.Message) {
	s.stateMu.Lock()
	s.history = working
	s.state = StateTextDone
	s.stateMu.Unlock()
}

// SendMessage drives one user turn to completion: model call, tool
// dispatch rounds in the order the model issued them, and a final text
// reply. It returns exactly one text reply or an error; it never returns a
// partial tool-call artifact.
//
// History is committed only at clean boundaries: a cancelled context or a
// failed model call leaves the session exactly as it was before this call.
func (s *Session) SendMessage(ctx context.Context, text string) (string, error) {
	text = strings.TrimSpace(text)
	if text == "" {
		return "", fmt.Errorf("%w: message is empty", contractx.ErrValidation)
	}

	if !s.mu.TryLock() {
		return "", fmt.Errorf("%w: %s", contractx.ErrSessionBusy, s.id)
	}
	defer s.mu.Unlock()

	s.stateMu.RLock()
	working := make([]*schema.Message, 0, len(s.history)+4)
	working = append(working, s.history...)
	s.stateMu.RUnlock()
	working = append(working, schema.UserMessage(text))

	rounds := 0
	for {
		if err := ctx.Err(); err != nil {
			s.setState(StateIdle)
			return "", err
		}

		s.setState(StateAwaitingModel)
		reply, err := s.model.Generate(ctx, s.withSystem(working))
		if err != nil {
			s.setState(StateIdle)
			return "", fmt.Errorf("%w: %v", contractx.ErrModelInvoke, err)
		}
		working = append(working, reply)

		if len(reply.ToolCalls) == 0 {
			s.commit(working)
			content := strings.TrimSpace(reply.Content)
			if content == "" {
				content = emptyReplyFallback
			}
			return content, nil
		}

		// Any non-empty invocation set overrides text in the same turn.
		if rounds >= s.maxToolRounds {
			s.logger.Warn().Int("rounds", rounds).Msg("tool round limit exceeded")
			// The pending calls must still get tool responses: an
			// assistant tool-call message with unanswered ids is rejected
			// by the backend when the history is replayed next turn.
			for _, call := range reply.ToolCalls {
				result := contractx.ToolResult{
					Tool:  strings.TrimSpace(call.Function.Name),
					Error: "tool round limit exceeded",
				}
				working = append(working, schema.ToolMessage(encodeResult(result), call.ID))
			}
			working = append(working, schema.AssistantMessage(loopLimitReply, nil))
			s.commit(working)
			return loopLimitReply, nil
		}
		rounds++

		s.setState(StateDispatchingTools)
		for _, call := range reply.ToolCalls {
			result := s.invoke(ctx, call)
			working = append(working, schema.ToolMessage(encodeResult(result), call.ID))
		}
	}
}

// invoke decodes one model tool call and dispatches it. Malformed argument
// JSON is fed back to the model as an error result, same as any other
// validation failure.
func (s *Session) invoke(ctx context.Context, call schema.ToolCall) contractx.ToolResult {
	name := strings.TrimSpace(call.Function.Name)

	args := map[string]any{}
	if raw := strings.TrimSpace(call.Function.Arguments); raw != "" {
		if err := json.Unmarshal([]byte(raw), &args); err != nil {
			return contractx.ToolResult{
				Tool:  name,
				Error: fmt.Sprintf("invalid tool arguments: %v", err),
			}
		}
	}

	result := s.registry.Dispatch(ctx, contractx.ToolInvocation{ID: call.ID, Name: name, Args: args})

	evt := s.logger.Debug().Str("tool", name)
	if result.Error != "" {
		evt = s.logger.Warn().Str("tool", name).Str("tool_error", result.Error)
	}
	evt.Msg("tool dispatched")

	return result
}

func (s *Session) withSystem(history []*schema.Message) []*schema.Message {
	msgs := make([]*schema.Message, 0, len(history)+1)
	msgs = append(msgs, schema.SystemMessage(s.systemPrompt(s.now())))
	msgs = append(msgs, history...)
	return msgs
}

func encodeResult(result contractx.ToolResult) string {
	payload, err := json.Marshal(result)
	if err != nil {
		fallback := contractx.ToolResult{
			Tool:  result.Tool,
			Error: fmt.Sprintf("tool result not serializable: %v", err),
		}
		payload, _ = json.Marshal(fallback)
	}
	return string(payload)
}
