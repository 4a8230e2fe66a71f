// Package keywords holds every phrase table used to read travel signals out of
// free text. The summarizer, the follow-up classifier and the response
// metadata extractor all match against these rule sets.
package keywords

import (
	"regexp"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
	"golang.org/x/text/unicode/norm"
)

// Normalize composes Vietnamese diacritics, lowercases and trims text so that
// precomposed and decomposed input match the same phrases.
func Normalize(text string) string {
	lower := cases.Lower(language.Vietnamese)
	return strings.TrimSpace(lower.String(norm.NFC.String(text)))
}

// Rule maps a label to the phrases that signal it
type Rule struct {
	Label   string
	Phrases []string
}

// Hits counts how many of the rule's phrases occur in already normalized text
func (r Rule) Hits(normalized string) int {
	n := 0
	for _, p := range r.Phrases {
		if strings.Contains(normalized, p) {
			n++
		}
	}
	return n
}

// RuleSet is an ordered list of rules. Order is significant: it decides
// priority for First and tie-breaking for Best.
type RuleSet struct {
	Name  string
	Rules []Rule
}

// Score is the number of phrase hits for one label
type Score struct {
	Label string
	Hits  int
}

// Matches returns the labels of every rule with at least one hit, in rule order
func (rs RuleSet) Matches(text string) []string {
	normalized := Normalize(text)
	var labels []string
	for _, r := range rs.Rules {
		if r.Hits(normalized) > 0 {
			labels = append(labels, r.Label)
		}
	}
	return labels
}

// First returns the label of the first rule with a hit, or ""
func (rs RuleSet) First(text string) string {
	normalized := Normalize(text)
	for _, r := range rs.Rules {
		if r.Hits(normalized) > 0 {
			return r.Label
		}
	}
	return ""
}

// Scores returns hit counts for every rule, in rule order
func (rs RuleSet) Scores(text string) []Score {
	normalized := Normalize(text)
	scores := make([]Score, 0, len(rs.Rules))
	for _, r := range rs.Rules {
		scores = append(scores, Score{Label: r.Label, Hits: r.Hits(normalized)})
	}
	return scores
}

// Best returns the label with the most hits. Equal counts go to the rule
// listed later. ok is false when nothing matched.
func (rs RuleSet) Best(text string) (label string, hits int, ok bool) {
	for _, s := range rs.Scores(text) {
		if s.Hits > 0 && s.Hits >= hits {
			label, hits, ok = s.Label, s.Hits, true
		}
	}
	return label, hits, ok
}

// ContainsAny reports whether text contains any of phrases after normalization
func ContainsAny(text string, phrases []string) bool {
	normalized := Normalize(text)
	for _, p := range phrases {
		if strings.Contains(normalized, p) {
			return true
		}
	}
	return false
}

// Budget tiers
const (
	BudgetLow  = "budget"
	BudgetMid  = "mid-range"
	BudgetHigh = "luxury"
)

// BudgetTiers is ordered by priority when several tiers are mentioned
var BudgetTiers = RuleSet{
	Name: "budget_tier",
	Rules: []Rule{
		{Label: BudgetLow, Phrases: []string{"giá rẻ", "tiết kiệm", "budget", "rẻ nhất"}},
		{Label: BudgetHigh, Phrases: []string{"cao cấp", "luxury", "sang trọng", "đắt tiền"}},
		{Label: BudgetMid, Phrases: []string{"trung bình", "vừa phải", "bình thường"}},
	},
}

// GroupTypes labels who is travelling
var GroupTypes = RuleSet{
	Name: "group_type",
	Rules: []Rule{
		{Label: "gia đình", Phrases: []string{"gia đình", "family", "trẻ em", "bố mẹ"}},
		{Label: "cặp đôi", Phrases: []string{"cặp đôi", "couple", "hai người", "2 người"}},
		{Label: "nhóm bạn", Phrases: []string{"nhóm bạn", "friends", "bạn bè", "đi chơi"}},
		{Label: "một mình", Phrases: []string{"một mình", "solo", "du lịch bụi"}},
	},
}

// Preferences labels the kind of trip the user enjoys
var Preferences = RuleSet{
	Name: "preference",
	Rules: []Rule{
		{Label: "ẩm thực", Phrases: []string{"ăn uống", "món ngon", "quán ăn", "food"}},
		{Label: "tham quan", Phrases: []string{"tham quan", "sightseeing", "check in"}},
		{Label: "nghỉ dưỡng", Phrases: []string{"nghỉ dưỡng", "relax", "spa", "resort"}},
		{Label: "mạo hiểm", Phrases: []string{"mạo hiểm", "adventure", "thể thao"}},
		{Label: "văn hóa", Phrases: []string{"văn hóa", "lịch sử", "museum", "temple"}},
	},
}

// Follow-up types
const (
	FollowUpLocation      = "location"
	FollowUpTopic         = "topic"
	FollowUpContinuation  = "continuation"
	FollowUpDetails       = "details"
	FollowUpBudget        = "budget"
	FollowUpTiming        = "timing"
	FollowUpTransport     = "transport"
	FollowUpClarification = "clarification"
)

// FollowUps scores how a new query continues the conversation
var FollowUps = RuleSet{
	Name: "follow_up",
	Rules: []Rule{
		{Label: FollowUpLocation, Phrases: []string{"gần đó", "ở đó", "khu vực đó", "around there", "nearby"}},
		{Label: FollowUpTopic, Phrases: []string{"thế nào", "như thế nào", "how about", "what about"}},
		{Label: FollowUpContinuation, Phrases: []string{"còn gì", "gì khác", "what else", "anything else"}},
		{Label: FollowUpDetails, Phrases: []string{"giá cả", "chi phí", "cost", "price", "bao nhiêu"}},
		{Label: FollowUpBudget, Phrases: []string{"ngân sách", "budget", "triệu", "nghìn", "tiền", "giá rẻ", "tiết kiệm", "ít tiền"}},
		{Label: FollowUpTiming, Phrases: []string{"thời gian", "giờ mở cửa", "hours", "when"}},
		{Label: FollowUpTransport, Phrases: []string{"cách đi", "di chuyển", "how to get", "transportation"}},
		{Label: FollowUpClarification, Phrases: []string{"đúng không", "phải không", "right?", "correct?"}},
	},
}

// BudgetIndicators mark a query as talking about money
var BudgetIndicators = []string{"triệu", "nghìn", "ngân sách", "budget", "tiền", "chi phí"}

// ClarificationPhrases appear in bot messages that asked the user for detail
var ClarificationPhrases = []string{"bạn có thể cho biết", "thành phố nào", "cụ thể hơn", "which", "where exactly"}

// FreshnessKeywords are analysis keywords that call for live search results
var FreshnessKeywords = []string{"current", "latest", "now", "today", "price", "open", "hours"}

// IsFreshnessKeyword reports whether keyword exactly equals a freshness keyword
func IsFreshnessKeyword(keyword string) bool {
	k := Normalize(keyword)
	for _, f := range FreshnessKeywords {
		if k == f {
			return true
		}
	}
	return false
}

var (
	durationPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*(ngày|đêm|days?|nights?)`),
		regexp.MustCompile(`(?i)(nửa ngày|buổi sáng|buổi chiều|buổi tối)`),
	}

	budgetAmountPatterns = []*regexp.Regexp{
		regexp.MustCompile(`(?i)(\d+)\s*triệu`),
		regexp.MustCompile(`(?i)(\d+)\s*tr`),
		regexp.MustCompile(`(?i)(\d+)\s*nghìn`),
		regexp.MustCompile(`(?i)(\d+)\s*k`),
		regexp.MustCompile(`(?i)(\d+)\s*million`),
		regexp.MustCompile(`(?i)(\d+)\s*thousand`),
	}
)

// Durations returns every trip-length expression in text, in pattern order
func Durations(text string) []string {
	normalized := Normalize(text)
	var found []string
	for _, re := range durationPatterns {
		found = append(found, re.FindAllString(normalized, -1)...)
	}
	return found
}

// Duration returns the first trip-length expression in text, or ""
func Duration(text string) string {
	if d := Durations(text); len(d) > 0 {
		return d[0]
	}
	return ""
}

// BudgetAmount extracts an amount such as "2 triệu" or "500k" from text
func BudgetAmount(text string) string {
	normalized := Normalize(text)
	for _, re := range budgetAmountPatterns {
		if m := re.FindString(normalized); m != "" {
			return m
		}
	}
	return ""
}

// topicRules maps phrases in a user's earlier question to how a budget
// answer should refer back to it
var topicRules = RuleSet{
	Name: "budget_topic",
	Rules: []Rule{
		{Label: "phở cuốn restaurants", Phrases: []string{"phở cuốn"}},
		{Label: "hotels", Phrases: []string{"khách sạn"}},
		{Label: "restaurants", Phrases: []string{"nhà hàng"}},
		{Label: "travel destinations and attractions", Phrases: []string{"địa điểm du lịch", "điểm tham quan", "du lịch"}},
	},
}

// DefaultTopic is used when an earlier question names no known topic
const DefaultTopic = "the previously discussed topic"

// Topic names what an earlier user question was about
func Topic(previousQuestion string) string {
	if t := topicRules.First(previousQuestion); t != "" {
		return t
	}
	return DefaultTopic
}
