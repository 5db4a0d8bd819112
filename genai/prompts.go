// ABOUTME: Prompt builders for every generation call site
// ABOUTME: Each call keeps its own error policy; two swallow, the rest propagate

package genai

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/vsdcomms/salesdesk/models"
)

// BuildUserContext renders the shared business-context block injected into
// most prompts.
func BuildUserContext(profile *models.Profile) string {
	if profile == nil {
		return "ROLE: Senior Business Development Strategist & Channel Consultant Expert."
	}

	assetList := "None provided"
	if len(profile.ProductAssets) > 0 {
		var lines []string
		for _, a := range profile.ProductAssets {
			lines = append(lines, fmt.Sprintf("- [%s] %s", strings.ToUpper(a.Type), a.Name))
		}
		assetList = strings.Join(lines, "\n")
	}

	return fmt.Sprintf(`
USER BUSINESS CONTEXT:
- Consultant Name: %s
- Organization: %s
- Focus Product/Service: %s
- Target Industries: %s
- Strategic Goals: %s
- Target Revenue: %s
- Sales Methodology: %s

AVAILABLE PRODUCT ASSETS:
%s
`, profile.Name, profile.CompanyName, profile.Product, profile.Industries,
		profile.Goals, profile.TargetRevenue, profile.SalesStyle, assetList)
}

// IntegratedStrategy produces the "Master Attack Plan" for a deal,
// optionally informed by competitor intel and that competitor's other
// linked deals.
func (c *Client) IntegratedStrategy(ctx context.Context, dealContext string, competitor *models.Competitor, profile *models.Profile, linkedDeals []models.Deal) (string, error) {
	competitorContext := "NO SPECIFIC COMPETITOR IDENTIFIED FOR THIS PLAN."
	if competitor != nil {
		competitorContext = fmt.Sprintf(`
COMPETITOR INTEL:
- Name: %s
- SWOT: %s
- Recent News: %s
- Previous Observations: %s
`, competitor.Name, competitor.SwotAnalysis, competitor.RecentNews, competitor.Notes)
	}

	dealsContext := ""
	if len(linkedDeals) > 0 {
		var lines []string
		for _, d := range linkedDeals {
			quote := d.QuotationNo
			if quote == "" {
				quote = "No Quote"
			}
			lines = append(lines, fmt.Sprintf("- [%s] %s (%s) - Value: %.0f - Status: %s",
				quote, d.Description, d.CompanyName, d.Value, d.PipelineStatus))
		}
		dealsContext = "\nCURRENT LINKED DEALS FOR THIS COMPETITOR:\n" + strings.Join(lines, "\n")
	}

	prompt := fmt.Sprintf(`You are a world-class Strategic Sales & Channel Management Architect.

%s

%s

%s

CURRENT DEAL SITUATION: %q

TASK: Develop a "Master Attack Plan" (Omni-channel strategy).
Include:
1. Competitive Edge: How to exploit this specific competitor's weaknesses relative to our linked deals.
2. Strategic Sequence: A step-by-step engagement plan for the next 7-14 days.
3. Value Re-framing: Specific talking points to win the Decision Maker.
4. Asset Utilization: How to use the available product assets mentioned above.

Format with bold headers and tactical bullet points.`,
		BuildUserContext(profile), competitorContext, dealsContext, dealContext)

	return c.generate(ctx, ModelPro, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.7)},
	})
}

// ProspectLeads runs a search-grounded lead hunt for the given criteria.
func (c *Client) ProspectLeads(ctx context.Context, criteria string) (string, error) {
	prompt := fmt.Sprintf(`ACT AS A B2B LEAD GENERATION EXPERT.
TASK: Find high-potential sales leads for: %q.
Focus on finding companies that matches a high-value B2B profile. Provide actionable insights on why these targets were chosen.`, criteria)

	return c.generate(ctx, ModelFlash, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.2)},
		Tools:            searchTools(),
	})
}

// ResearchCompany runs a search-grounded deep dive on one company.
func (c *Client) ResearchCompany(ctx context.Context, companyName string) (string, error) {
	prompt := fmt.Sprintf(`RESEARCH TASK: Deep dive into %q.
Analyze their current business health, recent quarterly filings or news, key challenges, and potential technology or service gaps.`, companyName)

	return c.generate(ctx, ModelFlash, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.2)},
		Tools:            searchTools(),
	})
}

// AnalyzeCompetitor runs a search-grounded market analysis of a rival.
// Structured output is deliberately not requested here; the search tool and
// a response schema do not combine well.
func (c *Client) AnalyzeCompetitor(ctx context.Context, competitorName string) (string, error) {
	prompt := fmt.Sprintf(`Market Analysis: Deep dive into competitor %q.
What are their current market strengths, weaknesses, and recent public movements?
How can a B2B sales professional effectively position a solution against them?
Please structure your response with clear sections for SWOT Analysis and Recent News.`, competitorName)

	return c.generate(ctx, ModelFlash, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.4)},
		Tools:            searchTools(),
	})
}

// EventPlan is the monthly event section of a marketing plan.
type EventPlan struct {
	Theme    string `json:"theme"`
	Agenda   string `json:"agenda"`
	Speakers string `json:"speakers"`
	Activity string `json:"activity"`
}

// WeeklyContent is one week's draft copy in the content calendar.
type WeeklyContent struct {
	Week    int    `json:"week"`
	Focus   string `json:"focus"`
	Channel string `json:"channel"`
	Copy    string `json:"copy"`
}

// MarketingPlan is the structured calendar response.
type MarketingPlan struct {
	EventPlan     EventPlan       `json:"eventPlan"`
	WeeklyContent []WeeklyContent `json:"weeklyContent"`
}

const marketingPlanSchema = `{
	"type": "OBJECT",
	"properties": {
		"eventPlan": {
			"type": "OBJECT",
			"properties": {
				"theme": {"type": "STRING"},
				"agenda": {"type": "STRING"},
				"speakers": {"type": "STRING"},
				"activity": {"type": "STRING"}
			},
			"required": ["theme", "agenda", "speakers", "activity"]
		},
		"weeklyContent": {
			"type": "ARRAY",
			"items": {
				"type": "OBJECT",
				"properties": {
					"week": {"type": "NUMBER"},
					"focus": {"type": "STRING"},
					"channel": {"type": "STRING"},
					"copy": {"type": "STRING"}
				},
				"required": ["week", "focus", "channel", "copy"]
			}
		}
	},
	"required": ["eventPlan", "weeklyContent"]
}`

// MarketingCalendar generates the monthly event plan plus a four-week
// content calendar with ready-to-paste draft copy, as structured JSON.
func (c *Client) MarketingCalendar(ctx context.Context, month string, year int, profile *models.Profile) (*MarketingPlan, error) {
	targetRevenue := "RM5,000,000"
	companyName := "VSD Communications"
	if profile != nil {
		if profile.TargetRevenue != "" {
			targetRevenue = profile.TargetRevenue
		}
		if profile.CompanyName != "" {
			companyName = profile.CompanyName
		}
	}

	prompt := fmt.Sprintf(`
I want you to act as a Virtual Digital Marketing Manager for %s. Your goal is to help me achieve my %s revenue target by organizing 1 high-impact event for %s %d.

%s

Task: Design a monthly event (Online/Offline Hybrid) for the wireless connectivity industry. Target Audience: Malaysia ISPs, System Integrators (SI), 3PL/Logistics, and Property/Facility Managers. Theme: Focus on Mimosa, Altai, Ligowave, or Wi-Tek solutions for Layer 1 connectivity.

You must provide the following two sections in JSON format:

1. The Event Plan:
- Theme & Title (Catchy and professional).
- Agenda (2-3 hours)/1 day.
- Speaker Lineup (Internal experts & guest partners).
- Interactive Activity (A specific idea to engage the audience).

2. The 4-Week Marketing Content Calendar (Crucial):
You must write the ACTUAL DRAFT COPY for the marketing materials below. Do not just summarize what to do; write the text so I can copy and paste it.
- Week 1 (Awareness): Write 1 LinkedIn Post highlighting a customer pain point (e.g., interference, cabling costs).
- Week 2 (Invitation): Write 1 Email Invitation script to recruit new Partners/Dealers.
- Week 3 (Nurturing): Write 1 WhatsApp message script to blast to my contact list.
- Week 4 (Urgency): Write 1 "Final Call" LinkedIn Post.

Tone Requirements:
- Adopt the persona of Phepott (Farah): Charismatic, confident, professional, and authoritative.
- Use bullet points and short, punchy English.
- Focus on "Solution Selling" and business benefits.
`, companyName, targetRevenue, month, year, BuildUserContext(profile))

	text, err := c.generate(ctx, ModelPro, request{
		Contents: userContent(prompt),
		GenerationConfig: &genConfig{
			ResponseMIMEType: "application/json",
			ResponseSchema:   json.RawMessage(marketingPlanSchema),
		},
	})
	if err != nil {
		return nil, err
	}

	var plan MarketingPlan
	if err := json.Unmarshal([]byte(text), &plan); err != nil {
		return nil, fmt.Errorf("failed to parse marketing plan: %w", err)
	}
	return &plan, nil
}

// MarketingContent writes the full publishable draft for one calendar task.
func (c *Client) MarketingContent(ctx context.Context, task models.MarketingTask, profile *models.Profile) (string, error) {
	prompt := fmt.Sprintf(`You are an expert B2B Copywriter.
%s

TASK: Write a full, professional draft for the following marketing piece.
Type: %s
Title: %s
Topic: %s
Context/Brief: %s

Format the output with Markdown. Make it engaging, professional, and ready to publish.
If it's LinkedIn, include hashtags. If it's a Newsletter, include a subject line.`,
		BuildUserContext(profile), task.Type, task.Title, task.Topic, task.Content)

	return c.generate(ctx, ModelPro, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.7)},
	})
}

// SuggestCompetitorNotes drafts a battle-card summary. Any failure returns
// an empty string: the notes field is advisory and a generation hiccup must
// not interrupt competitor editing.
func (c *Client) SuggestCompetitorNotes(ctx context.Context, swot, news string, profile *models.Profile) string {
	prompt := fmt.Sprintf(`Generate a B2B Sales Battle-Card summary based on:
SWOT: %s
LATEST NEWS: %s

%s

TASK:
1. Identify 3 critical leverage points where the consultant's organization has a clear advantage.
2. Provide 2 'trap questions' the consultant can ask the prospect to expose the competitor's weaknesses.
3. Suggest a closing tactic based on the competitor's recent movements.

Be concise, aggressive, and highly tactical.`, swot, news, BuildUserContext(profile))

	text, err := c.generate(ctx, ModelFlash, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.7)},
	})
	if err != nil {
		return ""
	}
	return text
}

// Fallback quotes for the dashboard motivation line.
const (
	motivationErrFallback   = "Success is where preparation and opportunity meet."
	motivationEmptyFallback = "Push the boundaries of what's possible today."
)

// QuickMotivation returns one motivational line for the dashboard. It never
// fails: errors and empty responses fall back to canned quotes so the
// dashboard always renders.
func (c *Client) QuickMotivation(ctx context.Context, profile *models.Profile) string {
	name := "Partner"
	if profile != nil && profile.Name != "" {
		name = profile.Name
	}
	prompt := fmt.Sprintf("Generate 1 short, high-impact motivational sentence for a professional Sales Consultant named %s.", name)

	text, err := c.generate(ctx, ModelFlash, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(1.0)},
	})
	if err != nil {
		return motivationErrFallback
	}
	if text == "" {
		return motivationEmptyFallback
	}
	return text
}

// ScriptParams carries the extra structure for WhatsApp outreach scripts.
type ScriptParams struct {
	Goal    string
	Outcome string
	CTA     string
}

// SalesScript writes outreach script variations. The WhatsApp scenario with
// custom params switches to the structured goal/outcome/CTA prompt.
func (c *Client) SalesScript(ctx context.Context, scenario, target, valueProp, tone string, variations int, profile *models.Profile, custom *ScriptParams) (string, error) {
	if variations <= 0 {
		variations = 1
	}

	var contentPrompt string
	if scenario == "WhatsApp Outreach" && custom != nil {
		contentPrompt = fmt.Sprintf(`Write specific WhatsApp Sales Outreach scripts.

STRUCTURE REQUIREMENTS:
1. Goal / Purpose of writing: %s
2. Expected Outcome: %s
3. Call To Action (CTA): %s

GUIDELINES:
- Format for WhatsApp (short paragraphs, use emojis sparingly but effectively).
- Keep it conversational but professional.
- Focus on the "Goal" leading to the "Outcome" via the "CTA".
- Tone: %s.`, custom.Goal, custom.Outcome, custom.CTA, tone)
	} else {
		contentPrompt = fmt.Sprintf(`Write professional sales outreach scripts.
Scenario: %s
Target Customer: %s
Value Proposition: %s
Desired Tone: %s`, scenario, target, valueProp, tone)
	}

	prompt := fmt.Sprintf(`%s
Number of Variations: %d

%s

Craft %d distinct variations.
Separate each variation clearly using a header like "--- VARIATION X ---".`,
		contentPrompt, variations, BuildUserContext(profile), variations)

	return c.generate(ctx, ModelFlash, request{
		Contents: userContent(prompt),
	})
}

// IdealClientProfile generates the ICP document saved onto the profile.
func (c *Client) IdealClientProfile(ctx context.Context, profile *models.Profile) (string, error) {
	prompt := fmt.Sprintf(`Based on the following user business context, generate a comprehensive Ideal Client Profile (ICP).

%s

TASK:
Provide a detailed description of the IDEAL CLIENT for this consultant. Structure your response with the following sections:
1.  **Ideal Industry/Niche**: Specific industries or sub-sectors.
2.  **Company Characteristics**: Size (revenue, employees), growth stage, geographic location.
3.  **Key Pain Points/Challenges**: Specific problems or needs this ideal client is actively trying to solve that align with the consultant's product/service.
4.  **Decision Maker Profile**: Titles, roles, and common objectives of the key individuals involved in the buying process.
5.  **Budget & Resources**: Typical budget allocation or financial capacity for solutions like the consultant offers.
6.  **Technology Adoption/Maturity**: Their openness to new technology, current tech stack, and digital maturity.
7.  **Value Alignment**: How their strategic goals or company culture aligns with the consultant's value proposition.

Ensure the ICP is actionable and provides a clear target for sales and marketing efforts. Format with bold headings and bullet points.`,
		BuildUserContext(profile))

	return c.generate(ctx, ModelPro, request{
		Contents:         userContent(prompt),
		GenerationConfig: &genConfig{Temperature: temp(0.7)},
	})
}
