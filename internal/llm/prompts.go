package llm

import (
	"fmt"
	"strings"

	"github.com/iksnae/tourmate/internal/search"
)

const systemPrompt = `Bạn là TourMate, trợ lý du lịch AI cho du lịch Việt Nam và quốc tế.

Bạn hỗ trợ: ẩm thực, chỗ ở, điểm tham quan, thời tiết, di chuyển, ngân sách, an toàn và lịch trình.

Nguyên tắc:
- Luôn trả lời bằng tiếng Việt.
- Chia câu trả lời thành các phần rõ ràng với tiêu đề emoji và gạch đầu dòng.
- Cung cấp giá cả, địa chỉ và giờ mở cửa cụ thể khi có thể.
- Không hỏi thêm nếu câu hỏi đã đủ rõ để đưa ra gợi ý hữu ích.
- Nếu địa điểm không rõ thuộc thành phố nào, hỏi lại một cách ngắn gọn.
- Kết thúc bằng một câu hỏi mở hoặc gợi ý liên quan.`

const analysisPrompt = `You are a travel query analyzer.

Conversation history:
%s

Current user query: %s

Decide whether the query is travel-related. Travel topics are food and dining,
accommodation, attractions, weather, transportation, budget and costs, safety
and preparation, itinerary planning, greetings, and general travel advice.
A message that continues an earlier travel discussion is travel-related. Budget
amounts such as "tôi có ngân sách 2 triệu" are travel-related.

If the query is NOT travel-related respond with:
{"category":"non_travel","intent":"not_travel_related","searchQuery":""}

Otherwise respond with ONLY this JSON object:
{
  "category": one of food, accommodation, attractions, weather, transportation, budget, safety, itinerary, general,
  "location": the most specific place mentioned or "",
  "intent": one of restaurant_recommendation, hotel_search, attraction_info, weather_check, transport_info, budget_advice, safety_tips, create_itinerary, greeting, general_advice,
  "keywords": list of important words from the query,
  "urgency": "low", "medium" or "high",
  "searchQuery": an English web search query for current information
}

Queries that mention money amounts, costs or prices are category "budget".`

const responsePrompt = `Dựa trên kết quả tìm kiếm, hãy trả lời câu hỏi du lịch của người dùng.

Câu hỏi gốc: %s

Kết quả tìm kiếm:
%s

Yêu cầu:
- Tổng hợp thông tin từ nhiều nguồn, ưu tiên chi tiết cụ thể: giá, địa chỉ, giờ mở cửa.
- Ẩm thực: 3-5 địa điểm. Chỗ ở: 3-4 lựa chọn theo ngân sách.
- Lịch trình: "Ngày X" với buổi sáng, chiều, tối và chi phí ước tính.
- Thêm phần "💡 Tips thêm" khi phù hợp.
- Trả lời hoàn toàn bằng tiếng Việt.`

func formatHistory(history []Turn) string {
	if len(history) == 0 {
		return "(none)"
	}
	var b strings.Builder
	for _, t := range history {
		fmt.Fprintf(&b, "%s: %s\n", t.Role, t.Content)
	}
	return strings.TrimRight(b.String(), "\n")
}

func formatResults(results []search.Result) string {
	var b strings.Builder
	for i, r := range results {
		fmt.Fprintf(&b, "%d. %s (%s)\n%s\n\n", i+1, r.Title, r.URL, r.Content)
	}
	return strings.TrimSpace(b.String())
}

// BudgetPrompt builds the request used when the user follows up with a budget
// for something discussed earlier. previousAnswer may be empty.
func BudgetPrompt(query, location, topic, amount, previousAnswer string) string {
	if amount == "" {
		amount = "the specified amount"
	}
	var b strings.Builder
	fmt.Fprintf(&b, "CONTEXT: The user previously asked about %s in %s.\n", topic, location)
	if previousAnswer != "" {
		fmt.Fprintf(&b, "My previous answer was:\n%s\n", previousAnswer)
	}
	fmt.Fprintf(&b, "\nCURRENT REQUEST: The user is specifying their budget: %q\n", query)
	fmt.Fprintf(&b, "Budget amount: %s\n\n", amount)
	fmt.Fprintf(&b, "TASK: Give specific recommendations for %s in %s that fit within %s.\n", topic, location, amount)
	fmt.Fprintf(&b, "DO NOT ask where they want to go; the destination is %s.\n\n", location)
	b.WriteString("Focus on:\n")
	b.WriteString("- Options within the budget and their prices\n")
	b.WriteString("- Transportation, entrance fees, accommodation and food costs\n")
	b.WriteString("- A total cost breakdown\n")
	b.WriteString("- Money-saving tips\n")
	return b.String()
}
