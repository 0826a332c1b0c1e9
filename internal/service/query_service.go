package service

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"fmt"
	"strings"
	"time"

	"github.com/hashicorp/golang-lru/v2/expirable"
	"github.com/xxxsen/common/logutil"
	"go.uber.org/zap"

	"github.com/nexushr/nexushr/internal/ai"
	"github.com/nexushr/nexushr/internal/model"
	appErr "github.com/nexushr/nexushr/internal/pkg/errors"
)

const (
	maxHistoryExchanges = 3
	sourcePreviewRunes  = 200
	promptTemplate      = "Answer the question based on the context below.\n\nContext: %s\n\nQuestion: %s\n\nAnswer:"
	fallbackPrefix      = "Based on the company policies:\n\n"
	noDocumentsApology  = "I could not find any company documents to answer that. Please ask HR to upload the relevant policies."
)

var policyKeywords = []string{"leave", "policy", "hours", "salary", "holiday", "benefit"}

var personalKeywords = []string{"name", "email", "personal", "my profile"}

type QueryService struct {
	chunks    ChunkStore
	embedder  ai.IEmbedder
	generator ai.IGenerator
	topK      int
	cache     *expirable.LRU[string, string]
}

func NewQueryService(chunks ChunkStore, embedder ai.IEmbedder, generator ai.IGenerator,
	topK int, cacheSize int, cacheTTL time.Duration) *QueryService {
	s := &QueryService{
		chunks:    chunks,
		embedder:  embedder,
		generator: generator,
		topK:      topK,
	}
	if cacheSize > 0 && cacheTTL > 0 {
		s.cache = expirable.NewLRU[string, string](cacheSize, nil, cacheTTL)
	}
	return s
}

// ClassifyIntent buckets a question by keyword counts. Personal-data
// hits take priority when they outnumber policy hits; no hits at all
// means general.
func (s *QueryService) ClassifyIntent(question string) string {
	lower := strings.ToLower(question)
	policyCount := countMatches(lower, policyKeywords)
	personalCount := countMatches(lower, personalKeywords)
	switch {
	case personalCount > policyCount:
		return model.IntentPersonalData
	case policyCount > 0:
		return model.IntentPolicy
	default:
		return model.IntentGeneral
	}
}

func countMatches(text string, keywords []string) int {
	count := 0
	for _, kw := range keywords {
		if strings.Contains(text, kw) {
			count++
		}
	}
	return count
}

// Suggest returns canned follow-ups keyed by the question topic.
func (s *QueryService) Suggest(question string) []string {
	lower := strings.ToLower(question)
	switch {
	case strings.Contains(lower, "leave") || strings.Contains(lower, "sick"):
		return []string{
			"How many sick leaves do employees get?",
			"Can sick leave be encashed?",
			"How do I apply for leave?",
			"What is the privilege leave policy?",
		}
	case strings.Contains(lower, "salary") || strings.Contains(lower, "pay"):
		return []string{
			"When is the salary paid?",
			"What are the salary components?",
			"How is the bonus calculated?",
			"What deductions are made from salary?",
		}
	case strings.Contains(lower, "performance") || strings.Contains(lower, "appraisal"):
		return []string{
			"How often is performance reviewed?",
			"What are the performance metrics?",
			"How is the rating decided?",
			"When is the appraisal cycle?",
		}
	case strings.Contains(lower, "work") || strings.Contains(lower, "hours"):
		return []string{
			"What are the working hours?",
			"Is remote work allowed?",
			"What is the overtime policy?",
			"How many work days in a week?",
		}
	case strings.Contains(lower, "holiday"):
		return []string{
			"How many holidays in a year?",
			"What are the public holidays?",
			"Are holidays paid?",
			"Can we work on holidays?",
		}
	default:
		return []string{
			"What is the leave policy?",
			"How do I apply for sick leave?",
			"What are the working hours?",
			"How is performance evaluation conducted?",
		}
	}
}

// Answer runs the full retrieval and generation pipeline. A failed
// generation call is not an error: the caller gets the most relevant
// retrieved text instead, flagged as degraded.
func (s *QueryService) Answer(ctx context.Context, question string, history []model.ChatExchange, includeSources bool) (*model.QueryResult, error) {
	question = strings.TrimSpace(question)
	if question == "" {
		return nil, fmt.Errorf("%w: question is required", appErr.ErrInvalid)
	}
	intent := s.ClassifyIntent(question)
	suggestions := s.Suggest(question)

	embedding, err := s.embedder.Embed(ctx, question, ai.TaskTypeQuery)
	if err != nil {
		return nil, fmt.Errorf("%w: embed question: %v", appErr.ErrProcessing, err)
	}
	retrieved, err := s.chunks.Nearest(ctx, embedding, s.topK)
	if err != nil {
		return nil, fmt.Errorf("%w: retrieve chunks: %v", appErr.ErrProcessing, err)
	}

	result := &model.QueryResult{
		Intent:      intent,
		Suggestions: suggestions,
	}
	if includeSources {
		result.Sources = buildSources(retrieved)
	}
	if len(retrieved) == 0 {
		result.Answer = noDocumentsApology
		result.Degraded = true
		return result, nil
	}

	prompt := buildPrompt(question, history, retrieved)
	if answer, ok := s.cachedAnswer(prompt); ok {
		result.Answer = answer
		return result, nil
	}
	answer, err := s.generator.Generate(ctx, prompt)
	if err != nil || strings.TrimSpace(answer) == "" {
		if err != nil {
			logutil.GetLogger(ctx).Warn("generation failed, returning retrieved text", zap.Error(err))
		}
		result.Answer = fallbackPrefix + retrieved[0].Content
		result.Degraded = true
		return result, nil
	}
	s.storeAnswer(prompt, answer)
	result.Answer = answer
	return result, nil
}

func (s *QueryService) cachedAnswer(prompt string) (string, bool) {
	if s.cache == nil {
		return "", false
	}
	return s.cache.Get(promptKey(prompt))
}

func (s *QueryService) storeAnswer(prompt, answer string) {
	if s.cache == nil {
		return
	}
	s.cache.Add(promptKey(prompt), answer)
}

func promptKey(prompt string) string {
	hash := sha256.Sum256([]byte(prompt))
	return hex.EncodeToString(hash[:])
}

func buildPrompt(question string, history []model.ChatExchange, retrieved []*model.ScoredChunk) string {
	var contextParts []string
	for _, chunk := range retrieved {
		contextParts = append(contextParts, chunk.Content)
	}
	contextText := strings.Join(contextParts, "\n\n")

	if len(history) > maxHistoryExchanges {
		history = history[len(history)-maxHistoryExchanges:]
	}
	if len(history) > 0 {
		var sb strings.Builder
		sb.WriteString("Previous conversation:\n")
		for _, exchange := range history {
			sb.WriteString("Q: ")
			sb.WriteString(exchange.Question)
			sb.WriteString("\nA: ")
			sb.WriteString(exchange.Answer)
			sb.WriteString("\n")
		}
		sb.WriteString("\n")
		contextText = sb.String() + contextText
	}
	return fmt.Sprintf(promptTemplate, contextText, question)
}

func buildSources(retrieved []*model.ScoredChunk) []model.Source {
	sources := make([]model.Source, 0, len(retrieved))
	for _, chunk := range retrieved {
		sources = append(sources, model.Source{
			Content:      truncateRunes(chunk.Content, sourcePreviewRunes),
			Filename:     chunk.Filename,
			Page:         chunk.Page,
			DocumentType: chunk.DocumentType,
			Score:        chunk.Score,
		})
	}
	return sources
}

func truncateRunes(text string, limit int) string {
	runes := []rune(text)
	if len(runes) <= limit {
		return text
	}
	return string(runes[:limit]) + "..."
}
