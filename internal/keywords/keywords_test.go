package keywords

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalize(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{"lowercase and trim", "  Hà Nội  ", "hà nội"},
		{"vietnamese uppercase", "ĐỒNG NAI", "đồng nai"},
		// "ệ" written as e plus combining dot below and circumflex
		{"decomposed diacritics", "Vi\u0065\u0323\u0302t Nam", "việt nam"},
		{"empty", "", ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Normalize(tt.input))
		})
	}
}

func TestBudgetTiers_First(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"Tìm khách sạn giá rẻ", BudgetLow},
		{"resort sang trọng", BudgetHigh},
		{"mức giá trung bình", BudgetMid},
		{"giá rẻ hay cao cấp đều được", BudgetLow},
		{"cao cấp hoặc trung bình", BudgetHigh},
		{"không nói gì về tiền", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetTiers.First(tt.text))
		})
	}
}

func TestGroupTypes_Matches(t *testing.T) {
	assert.Equal(t, []string{"gia đình"}, GroupTypes.Matches("Đi cùng bố mẹ và trẻ em"))
	assert.Equal(t, []string{"cặp đôi", "một mình"}, GroupTypes.Matches("couple hoặc solo"))
	assert.Empty(t, GroupTypes.Matches("Hà Nội có gì vui"))
}

func TestPreferences_Matches(t *testing.T) {
	got := Preferences.Matches("Tôi thích món ngon và đi spa, thăm museum")
	assert.Equal(t, []string{"ẩm thực", "nghỉ dưỡng", "văn hóa"}, got)
}

func TestFollowUps_Best(t *testing.T) {
	tests := []struct {
		name      string
		query     string
		wantLabel string
		wantHits  int
		wantOK    bool
	}{
		{"budget amount", "tôi có ngân sách 2 triệu", FollowUpBudget, 2, true},
		{"location", "Có gì gần đó không?", FollowUpLocation, 1, true},
		{"transport", "cách đi và di chuyển thế nào", FollowUpTransport, 2, true},
		{"tie goes to later rule", "giá cả ra sao, ngân sách", FollowUpBudget, 1, true},
		{"no match", "xin chào", "", 0, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			label, hits, ok := FollowUps.Best(tt.query)
			assert.Equal(t, tt.wantOK, ok)
			assert.Equal(t, tt.wantLabel, label)
			assert.Equal(t, tt.wantHits, hits)
		})
	}
}

func TestContainsAny(t *testing.T) {
	assert.True(t, ContainsAny("Tôi có 3 TRIỆU", BudgetIndicators))
	assert.False(t, ContainsAny("đi đâu chơi", BudgetIndicators))
	assert.True(t, ContainsAny("Bạn có thể cho biết thành phố?", ClarificationPhrases))
}

func TestIsFreshnessKeyword(t *testing.T) {
	assert.True(t, IsFreshnessKeyword("Today"))
	assert.True(t, IsFreshnessKeyword("price"))
	assert.False(t, IsFreshnessKeyword("prices"))
	assert.False(t, IsFreshnessKeyword("phở"))
}

func TestDurations(t *testing.T) {
	assert.Equal(t, []string{"3 ngày", "2 đêm"}, Durations("Lịch trình 3 ngày 2 đêm"))
	assert.Equal(t, []string{"5 days", "buổi sáng"}, Durations("5 DAYS, mostly buổi sáng"))
	assert.Equal(t, "nửa ngày", Duration("đi nửa ngày thôi"))
	assert.Empty(t, Duration("không có thời gian cụ thể"))
}

func TestBudgetAmount(t *testing.T) {
	tests := []struct {
		text string
		want string
	}{
		{"tôi có ngân sách 2 triệu", "2 triệu"},
		{"khoảng 5tr", "5tr"},
		{"500 nghìn thôi", "500 nghìn"},
		{"tầm 300k", "300k"},
		{"about 3 million", "3 million"},
		{"không rõ", ""},
	}
	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			assert.Equal(t, tt.want, BudgetAmount(tt.text))
		})
	}
}

func TestTopic(t *testing.T) {
	tests := []struct {
		question string
		want     string
	}{
		{"Quán phở cuốn ngon ở Hà Nội", "phở cuốn restaurants"},
		{"Khách sạn gần biển", "hotels"},
		{"Nhà hàng hải sản", "restaurants"},
		{"Tôi cần 2 địa điểm du lịch ở Đồng Nai", "travel destinations and attractions"},
		{"Thời tiết hôm nay", DefaultTopic},
	}
	for _, tt := range tests {
		t.Run(tt.question, func(t *testing.T) {
			assert.Equal(t, tt.want, Topic(tt.question))
		})
	}
}
