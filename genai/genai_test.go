// ABOUTME: Tests for the generation client and per-call error policies
// ABOUTME: Uses httptest servers standing in for the Gemini endpoint

package genai

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/vsdcomms/salesdesk/models"
)

func fakeGemini(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c := NewClient("test-key")
	c.SetBaseURL(srv.URL)
	return c
}

func textResponse(text string) string {
	resp := map[string]any{
		"candidates": []map[string]any{{
			"content": map[string]any{
				"parts": []map[string]string{{"text": text}},
			},
		}},
	}
	data, _ := json.Marshal(resp)
	return string(data)
}

func TestGenerateReturnsCandidateText(t *testing.T) {
	var gotPath string
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		gotPath = r.URL.Path
		w.Write([]byte(textResponse("Target the CFO first.")))
	})

	out, err := c.ResearchCompany(context.Background(), "Acme Networks")
	require.NoError(t, err)
	assert.Equal(t, "Target the CFO first.", out)
	assert.Contains(t, gotPath, ModelFlash)
}

func TestMissingAPIKey(t *testing.T) {
	c := NewClient("")
	_, err := c.ResearchCompany(context.Background(), "Acme")
	assert.ErrorIs(t, err, ErrNoAPIKey)
}

func TestQuickMotivationFallsBackOnError(t *testing.T) {
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
		w.Write([]byte(`{"error":{"code":500,"message":"boom"}}`))
	})

	got := c.QuickMotivation(context.Background(), nil)
	assert.Equal(t, motivationErrFallback, got, "dashboard must always get a quote")
}

func TestQuickMotivationFallsBackOnEmptyResponse(t *testing.T) {
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"candidates":[]}`))
	})

	got := c.QuickMotivation(context.Background(), &models.Profile{Name: "Farah"})
	assert.Equal(t, motivationEmptyFallback, got)
}

func TestSuggestCompetitorNotesSwallowsErrors(t *testing.T) {
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusInternalServerError)
	})

	got := c.SuggestCompetitorNotes(context.Background(), "swot", "news", nil)
	assert.Empty(t, got, "battle-card failures must not interrupt editing")
}

func TestStrategyErrorPropagates(t *testing.T) {
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"error":{"code":429,"message":"quota"}}`))
	})

	_, err := c.IntegratedStrategy(context.Background(), "stuck in negotiation", nil, nil, nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "quota")
}

func TestMarketingCalendarParsesStructuredResponse(t *testing.T) {
	plan := MarketingPlan{
		EventPlan: EventPlan{Theme: "Wireless First", Agenda: "Half day", Speakers: "Internal", Activity: "Live demo"},
		WeeklyContent: []WeeklyContent{
			{Week: 1, Focus: "Awareness", Channel: "LinkedIn", Copy: "Post copy"},
		},
	}
	planJSON, _ := json.Marshal(plan)

	var gotReq request
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(textResponse(string(planJSON))))
	})

	got, err := c.MarketingCalendar(context.Background(), "September", 2026, nil)
	require.NoError(t, err)
	assert.Equal(t, "Wireless First", got.EventPlan.Theme)
	require.Len(t, got.WeeklyContent, 1)
	assert.Equal(t, "LinkedIn", got.WeeklyContent[0].Channel)

	require.NotNil(t, gotReq.GenerationConfig)
	assert.Equal(t, "application/json", gotReq.GenerationConfig.ResponseMIMEType)
	assert.NotEmpty(t, gotReq.GenerationConfig.ResponseSchema)
}

func TestMarketingCalendarRejectsMalformedJSON(t *testing.T) {
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(textResponse("not json at all")))
	})

	_, err := c.MarketingCalendar(context.Background(), "September", 2026, nil)
	assert.Error(t, err)
}

func TestSearchGroundedCallsRequestTheTool(t *testing.T) {
	var gotReq request
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		require.NoError(t, json.NewDecoder(r.Body).Decode(&gotReq))
		w.Write([]byte(textResponse("leads")))
	})

	_, err := c.ProspectLeads(context.Background(), "Malaysia ISPs")
	require.NoError(t, err)
	require.Len(t, gotReq.Tools, 1)
	assert.NotNil(t, gotReq.Tools[0].GoogleSearch)
}

func TestCoachingChatKeepsHistory(t *testing.T) {
	calls := 0
	var lastReq request
	c := fakeGemini(t, func(w http.ResponseWriter, r *http.Request) {
		calls++
		require.NoError(t, json.NewDecoder(r.Body).Decode(&lastReq))
		w.Write([]byte(textResponse("Try anchoring on value.")))
	})

	chat := c.NewCoachingChat(&models.Profile{Name: "Farah"}, nil)

	reply, err := chat.Send(context.Background(), "How do I handle a price objection?")
	require.NoError(t, err)
	assert.Equal(t, "model", reply.Role)
	assert.NotEmpty(t, reply.ID)

	_, err = chat.Send(context.Background(), "And if they still push back?")
	require.NoError(t, err)

	assert.Equal(t, 2, calls)
	// Second request replays the whole thread: user, model, user.
	require.Len(t, lastReq.Contents, 3)
	assert.Equal(t, "user", lastReq.Contents[0].Role)
	assert.Equal(t, "model", lastReq.Contents[1].Role)
	require.NotNil(t, lastReq.SystemInstruction)

	history := chat.History()
	assert.Len(t, history, 4)
	assert.NotEqual(t, history[0].ID, history[1].ID)
}

func TestBuildUserContext(t *testing.T) {
	assert.Contains(t, BuildUserContext(nil), "Senior Business Development Strategist")

	p := &models.Profile{
		Name:        "Farah",
		CompanyName: "VSD Communications",
		ProductAssets: []models.ProductAsset{
			{Name: "Altai Datasheet", Type: models.AssetDatasheet},
		},
	}
	ctx := BuildUserContext(p)
	assert.Contains(t, ctx, "Farah")
	assert.Contains(t, ctx, "[DATASHEET] Altai Datasheet")
}
