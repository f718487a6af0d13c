package services

import (
	"context"
	"math/rand"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"mendpath/internal/models/db_models"
	"mendpath/internal/models/request_models"
	"mendpath/internal/models/response_models"
	"mendpath/internal/repositories"
	"mendpath/pkg/release"
	"mendpath/pkg/utils"
)

// TemplateResponse is the result of the offline template path. It never
// carries an error; template generation is pure string logic.
type TemplateResponse struct {
	Content            string
	NeedsCrisisSupport bool
	StepSuggestion     *int
	ExerciseSuggestion string
}

type AiServiceInterface interface {
	CreateConversation(ctx context.Context, userId uuid.UUID, req request_models.CreateConversationRequest) (*response_models.ConversationResponse, error)
	ListConversations(ctx context.Context, userId uuid.UUID) ([]response_models.ConversationResponse, error)
	ListMessages(ctx context.Context, userId uuid.UUID, conversationId string) ([]db_models.AiChatMessage, error)

	// SendMessage appends the user's message and an assistant reply. The
	// reply comes from the template path, or from the model when the
	// request asks for guidance and the conversation is step-anchored.
	SendMessage(ctx context.Context, userId uuid.UUID, conversationId string, req request_models.SendMessageRequest) (*response_models.AssistantReply, error)

	GenerateTemplateResponse(message string, currentStep *int) TemplateResponse
	DetectCrisisLanguage(message string) bool
}

type AiService struct {
	aiRepo   repositories.AiRepository
	guidance utils.GuidanceClientInterface
}

func NewAiService(aiRepo repositories.AiRepository, guidance utils.GuidanceClientInterface) AiServiceInterface {
	return &AiService{
		aiRepo:   aiRepo,
		guidance: guidance,
	}
}

// crisisPhrases is matched case-insensitively as substrings. Kept fixed;
// detection failures must never depend on external services.
var crisisPhrases = []string{
	"suicide",
	"suicidal",
	"kill myself",
	"end my life",
	"want to die",
	"better off dead",
	"hurt myself",
	"harm myself",
	"self harm",
	"self-harm",
	"no reason to live",
	"can't go on",
}

const crisisSupportNote = "It sounds like you are carrying something very heavy right now. " +
	"You deserve immediate support from a real person. Please reach out to a crisis line " +
	"or someone you trust right away. This space will still be here for you."

// stepResponses is the step-indexed canned response table, keyed by the
// same numbers as the release catalog.
var stepResponses = map[int]string{
	1: "Recognizing the hurt is the bravest first move. You don't have to soften the story " +
		"or explain it away. Try writing down exactly what happened and how it landed on you.",
	2: "Empathizing never means excusing. Seeing the other person as a whole, flawed human " +
		"loosens the hold their action has on you. What might their life have looked like then?",
	3: "Letting go is not approving of what happened. It is deciding to stop gripping the pain " +
		"so tightly. Many people find the unsent letter exercise a powerful way to begin.",
	4: "Embracing forgiveness means choosing it for your own sake. Write down, in one sentence, " +
		"what forgiveness would give back to you.",
	5: "Acceptance is making peace with what cannot be rewritten. You still choose what the " +
		"experience will mean from here.",
	6: "Sustaining forgiveness takes practice. When the old feelings return, that's not failure; " +
		"it's an invitation to repeat the choice you already made.",
	7: "Evolving means the hurt no longer defines you. Look back at where you started; the " +
		"distance you've covered belongs to you.",
}

// keywordCategory pairs trigger substrings with a canned reply and an
// optional suggested step.
type keywordCategory struct {
	triggers []string
	content  string
	step     int
}

var keywordCategories = []keywordCategory{
	{
		triggers: []string{"angry", "anger", "furious", "rage", "resent"},
		content: "Anger is a natural guardian of a wound. It is telling you that something " +
			"mattered. Naming it honestly is exactly what the Recognize step is for.",
		step: 1,
	},
	{
		triggers: []string{"hurt", "betray", "betrayed", "wounded", "pain"},
		content: "Betrayal cuts deep because trust was given. Your pain is valid, and it " +
			"doesn't have to be the end of your story. Start by acknowledging it fully.",
		step: 1,
	},
	{
		triggers: []string{"forgive", "forgiveness", "let go", "move on", "release"},
		content: "Wanting to forgive is already movement. Remember: letting go releases your " +
			"grip on the pain, not your standards. The Let Go step has exercises for this.",
		step: 3,
	},
	{
		triggers: []string{"trust", "relationship", "partner", "friend", "family"},
		content: "Rebuilding trust, with them or with yourself, is a separate road from " +
			"forgiveness. You can forgive fully and still choose your boundaries.",
		step: 5,
	},
}

var genericResponses = []string{
	"Thank you for sharing that. Whatever you are feeling right now is a valid part of the " +
		"journey. What feels most present for you today?",
	"I'm here with you. Forgiveness is rarely a straight line; every honest word you write " +
		"is progress. Would it help to put this in your journal?",
	"That takes courage to say. Take a slow breath, and remember you set the pace of this " +
		"journey. What would feel like one small step right now?",
}

// GenerateTemplateResponse dispatches, in order: step-anchored canned
// content, keyword category, then a random generic supportive template.
func (s *AiService) GenerateTemplateResponse(message string, currentStep *int) TemplateResponse {
	if currentStep != nil {
		if content, ok := stepResponses[*currentStep]; ok {
			step := *currentStep
			resp := TemplateResponse{
				Content:        content,
				StepSuggestion: &step,
			}
			if catalogStep, ok := release.ByNumber(step); ok && len(catalogStep.Exercises) > 0 {
				resp.ExerciseSuggestion = catalogStep.Exercises[0]
			}
			return resp
		}
	}

	lower := strings.ToLower(message)
	for _, cat := range keywordCategories {
		for _, trigger := range cat.triggers {
			if strings.Contains(lower, trigger) {
				step := cat.step
				return TemplateResponse{
					Content:        cat.content,
					StepSuggestion: &step,
				}
			}
		}
	}

	return TemplateResponse{
		Content: genericResponses[rand.Intn(len(genericResponses))],
	}
}

func (s *AiService) DetectCrisisLanguage(message string) bool {
	lower := strings.ToLower(message)
	for _, phrase := range crisisPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}

func (s *AiService) CreateConversation(ctx context.Context, userId uuid.UUID, req request_models.CreateConversationRequest) (*response_models.ConversationResponse, error) {
	if req.StepNumber != nil && !release.ValidStep(*req.StepNumber) {
		return nil, utils.ErrInvalidStep
	}

	title := strings.TrimSpace(req.Title)
	if title == "" {
		title = "New conversation"
	}

	conversation := &db_models.AiConversation{
		UserID:     userId,
		Title:      title,
		StepNumber: req.StepNumber,
	}
	if err := s.aiRepo.CreateConversation(ctx, conversation); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return toConversationResponse(conversation), nil
}

func (s *AiService) ListConversations(ctx context.Context, userId uuid.UUID) ([]response_models.ConversationResponse, error) {
	conversations, err := s.aiRepo.ListConversationsByUser(ctx, userId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}

	out := make([]response_models.ConversationResponse, 0, len(conversations))
	for i := range conversations {
		out = append(out, *toConversationResponse(&conversations[i]))
	}
	return out, nil
}

func (s *AiService) ListMessages(ctx context.Context, userId uuid.UUID, conversationId string) ([]db_models.AiChatMessage, error) {
	conversation, err := s.ownedConversation(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}

	messages, err := s.aiRepo.ListMessages(ctx, conversation.ID)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	return messages, nil
}

func (s *AiService) SendMessage(ctx context.Context, userId uuid.UUID, conversationId string, req request_models.SendMessageRequest) (*response_models.AssistantReply, error) {
	conversation, err := s.ownedConversation(ctx, userId, conversationId)
	if err != nil {
		return nil, err
	}

	crisis := s.DetectCrisisLanguage(req.Content)

	content, source, stepSuggestion, exercise := s.composeReply(ctx, conversation, req)

	if crisis {
		content = crisisSupportNote + "\n\n" + content
	}

	userMsg := &db_models.AiChatMessage{
		ConversationID: conversation.ID,
		Role:           db_models.ChatRoleUser,
		Content:        req.Content,
	}
	assistantMsg := &db_models.AiChatMessage{
		ConversationID: conversation.ID,
		Role:           db_models.ChatRoleAssistant,
		Content:        content,
		CrisisFlagged:  crisis,
		StepSuggestion: stepSuggestion,
	}
	if err := s.aiRepo.AppendExchange(ctx, userMsg, assistantMsg); err != nil {
		return nil, utils.ErrDatabaseError
	}

	return &response_models.AssistantReply{
		MessageID:          assistantMsg.ID,
		Content:            content,
		NeedsCrisisSupport: crisis,
		StepSuggestion:     stepSuggestion,
		ExerciseSuggestion: exercise,
		Source:             source,
	}, nil
}

// composeReply picks the model path when asked for and possible, falling
// back to the template path. Model failures are logged with their cause
// and collapse to a graceful fallback for the user, but the source tag
// lets callers tell the difference.
func (s *AiService) composeReply(ctx context.Context, conversation *db_models.AiConversation, req request_models.SendMessageRequest) (content, source string, stepSuggestion *int, exercise string) {
	if req.UseGuidance && s.guidance != nil && conversation.StepNumber != nil {
		if step, ok := release.ByNumber(*conversation.StepNumber); ok {
			out, err := s.guidance.GenerateStepGuidance(ctx, step, req.Content)
			if err == nil {
				return out, "model", conversation.StepNumber, ""
			}
			log.Warn().Err(err).Str("conversation_id", conversation.ID.String()).
				Msg("guidance call failed, serving fallback")
			return "I'm sorry, I couldn't reach your guide just now. Take a moment with " +
				"your journal, and try again in a little while.", "fallback", conversation.StepNumber, ""
		}
	}

	tmpl := s.GenerateTemplateResponse(req.Content, conversation.StepNumber)
	return tmpl.Content, "template", tmpl.StepSuggestion, tmpl.ExerciseSuggestion
}

func (s *AiService) ownedConversation(ctx context.Context, userId uuid.UUID, conversationId string) (*db_models.AiConversation, error) {
	conversation, err := s.aiRepo.GetConversationById(ctx, conversationId)
	if err != nil {
		return nil, utils.ErrDatabaseError
	}
	if conversation == nil {
		return nil, utils.ErrRecordNotFound
	}
	if conversation.UserID != userId {
		return nil, utils.ErrConversationOwner
	}
	return conversation, nil
}

func toConversationResponse(c *db_models.AiConversation) *response_models.ConversationResponse {
	return &response_models.ConversationResponse{
		ID:         c.ID,
		Title:      c.Title,
		StepNumber: c.StepNumber,
		CreatedAt:  c.CreatedAt,
	}
}
