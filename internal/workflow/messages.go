package workflow

// Canned answer labels reported in reply metadata
const (
	CannedNonTravel = "non_travel_query"
	CannedUnclear   = "unclear_query"
)

const nonTravelMessage = `Tôi là trợ lý du lịch chuyên biệt và chỉ có thể giúp đỡ các câu hỏi liên quan đến du lịch.

Vui lòng hỏi tôi về:
🍽️ **Ẩm thực & Nhà hàng**: Món ăn địa phương, nhà hàng ngon, đặc sản
🏨 **Chỗ ở**: Khách sạn, homestay, resort
🗺️ **Điểm tham quan**: Địa danh nổi tiếng, hoạt động vui chơi
🌤️ **Thời tiết**: Dự báo thời tiết, thời điểm du lịch lý tưởng
🚗 **Phương tiện di chuyển**: Cách di chuyển, giá vé, tuyến đường

Ví dụ: "Nhà hàng phở ngon nhất ở Hà Nội" hoặc "Khách sạn gần chợ Bến Thành"`

const unclearMessage = `Tôi không thể hiểu rõ câu hỏi du lịch của bạn.

Bạn có thể cụ thể hơn không? Ví dụ:
• Bao gồm điểm đến/địa điểm bạn đang hỏi về
• Chỉ rõ loại thông tin bạn cần (nhà hàng, khách sạn, điểm tham quan, v.v.)
• Chi tiết hơn về những gì bạn muốn biết

Thử hỏi như: "Nhà hàng sushi ngon nhất ở Tokyo" hoặc "Thời tiết Paris tuần này"`

const fallbackMessage = `Xin lỗi, tôi gặp phải sự cố kỹ thuật không mong muốn.

Vui lòng thử:
• Diễn đạt lại câu hỏi du lịch của bạn
• Cụ thể hơn về địa điểm và những gì bạn cần
• Hỏi về nhà hàng, khách sạn, điểm tham quan, thời tiết hoặc phương tiện di chuyển

Tôi ở đây để giúp bạn lập kế hoạch du lịch! 🧳`

const generateFailedMessage = "Xin lỗi, tôi đang gặp khó khăn trong việc tạo phản hồi ngay bây giờ. Vui lòng thử lại."

const noResultsDisclaimer = "\n\n⚠️ Tôi không thể tìm thấy thông tin hiện tại về chủ đề này. Phản hồi trên dựa trên kiến thức chung."

const panicMessage = "Xin lỗi, tôi gặp phải lỗi không mong muốn. Vui lòng thử lại."

const noResponseMessage = "I'm sorry, I couldn't generate a response."

// unknownDestination stands in when a budget follow-up has no location yet
const unknownDestination = "previous destination"
