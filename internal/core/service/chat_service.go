package service

import (
	"context"
	"strings"

	"github.com/rs/zerolog"

	"github.com/sadhana-school/portal/internal/core/domain"
	"github.com/sadhana-school/portal/internal/core/ports"
)

// Reply sources.
const (
	ReplyRemote = "remote"
	ReplyLocal  = "local"
)

// ChatReply is one assistant answer.
type ChatReply struct {
	Response string `json:"response"`
	Source   string `json:"source"`
}

type cannedReply struct {
	keyword string
	text    string
}

// cannedReplies are checked in order; the first keyword contained in the
// lower-cased question wins.
var cannedReplies = []cannedReply{
	{"about", "Sadhana Memorial School is a premier educational institution dedicated to nurturing young minds with quality education and holistic development."},
	{"admission", "For admission inquiries, please contact our admissions office at admission@sadhanamemorialschool.edu or call 040-XXXX-XXXX"},
	{"fees", "Our fee structure varies by class. Please visit the Fees section on the dashboard or contact our office for detailed information."},
	{"contact", "Contact us at: Email: office@sadhanamemorialschool.edu | Phone: 040-XXXX-XXXX | Address: Hyderabad, Telangana"},
	{"facilities", "We offer excellent facilities including science labs, computer labs, sports grounds, library, and more!"},
	{"principal", "Our Principal is Gorla Lakshmin Devi, Vice Principal is Gorla Rajulu, and Academic Coordinator is Gorla Ramna."},
	{"timings", "School timings are generally 8:00 AM to 2:30 PM. Please contact for exact timings for your class."},
	{"transport", "Yes, we provide transport facilities across Hyderabad. Contact our office for route and fare information."},
	{"sports", "We have excellent sports programs including cricket, badminton, athletics, and more!"},
}

const defaultReply = "I'm here to help! Ask me about admissions, fees, facilities, contact information, or anything else about our school."

// QuickQuestions are the suggestions offered before the first message.
var QuickQuestions = []string{
	"About the school",
	"Admission process",
	"Fees structure",
	"Contact us",
	"Facilities",
	"Contact information",
}

// LocalReply answers from the built-in table.
func LocalReply(message string) string {
	msg := strings.ToLower(message)
	for _, r := range cannedReplies {
		if strings.Contains(msg, r.keyword) {
			return r.text
		}
	}
	return defaultReply
}

type ChatService struct {
	api    ports.ChatAPI
	logger zerolog.Logger
}

func NewChatService(api ports.ChatAPI, logger zerolog.Logger) *ChatService {
	return &ChatService{api: api, logger: logger}
}

// Reply asks the backend assistant and falls back to the local table when
// the call fails or returns nothing.
func (s *ChatService) Reply(ctx context.Context, message string) (*ChatReply, error) {
	message = strings.TrimSpace(message)
	if message == "" {
		return nil, domain.ErrEmptyMessage
	}

	text, err := s.api.Chat(ctx, message)
	if err != nil {
		s.logger.Warn().Err(err).Msg("chat backend unavailable, answering locally")
		return &ChatReply{Response: LocalReply(message), Source: ReplyLocal}, nil
	}
	if strings.TrimSpace(text) == "" {
		return &ChatReply{Response: LocalReply(message), Source: ReplyLocal}, nil
	}
	return &ChatReply{Response: text, Source: ReplyRemote}, nil
}
