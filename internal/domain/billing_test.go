package domain

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func paidCatalog(n int) []Level {
	levels := []Level{
		{ID: "free-1", OrderIndex: 1, IsFree: true, Status: LevelStatusPublished},
		{ID: "draft", OrderIndex: 2, Status: LevelStatusDraft},
	}
	// Insert in reverse order to make sure the prefix follows order_index.
	for i := n; i >= 1; i-- {
		levels = append(levels, Level{
			ID:         fmt.Sprintf("paid-%d", i),
			OrderIndex: i + 2,
			Status:     LevelStatusPublished,
		})
	}
	return levels
}

func ids(levels []Level) []string {
	out := make([]string, 0, len(levels))
	for _, l := range levels {
		out = append(out, l.ID)
	}
	return out
}

func TestEntitledLevels(t *testing.T) {
	catalog := paidCatalog(12)

	basic := EntitledLevels(PlanBasic, catalog)
	assert.Equal(t, []string{"paid-1", "paid-2", "paid-3", "paid-4", "paid-5"}, ids(basic))

	pro := EntitledLevels(PlanPro, catalog)
	assert.Len(t, pro, 10)
	assert.Equal(t, "paid-10", pro[9].ID)

	business := EntitledLevels(PlanBusiness, catalog)
	assert.Len(t, business, 12)

	assert.Empty(t, EntitledLevels(Plan("gold"), catalog))
}

func TestEntitledLevels_FewerPaidLevelsThanLimit(t *testing.T) {
	assert.Len(t, EntitledLevels(PlanPro, paidCatalog(3)), 3)
}

func TestParsePlan(t *testing.T) {
	p, ok := ParsePlan(" Basic ")
	assert.True(t, ok)
	assert.Equal(t, PlanBasic, p)

	_, ok = ParsePlan("enterprise")
	assert.False(t, ok)
}

func TestCheckoutCompleted_Purchaser(t *testing.T) {
	assert.Equal(t, "ref", CheckoutCompleted{ClientReferenceID: "ref", MetadataUserID: "meta"}.Purchaser())
	assert.Equal(t, "meta", CheckoutCompleted{MetadataUserID: "meta"}.Purchaser())
	assert.Equal(t, "in_1", CheckoutCompleted{SessionID: "cs_1", InvoiceID: "in_1", PaymentIntentID: "pi_1"}.PaymentReference())
	assert.Equal(t, "pi_1", CheckoutCompleted{SessionID: "cs_1", PaymentIntentID: "pi_1"}.PaymentReference())
	assert.Equal(t, "cs_1", CheckoutCompleted{SessionID: "cs_1"}.PaymentReference())
}

func TestSubscriptionGrantsAccess(t *testing.T) {
	assert.True(t, Subscription{Status: SubscriptionActive}.GrantsAccess())
	assert.True(t, Subscription{Status: SubscriptionTrialing}.GrantsAccess())
	assert.False(t, Subscription{Status: SubscriptionCanceled}.GrantsAccess())
	assert.False(t, Subscription{Status: SubscriptionPastDue}.GrantsAccess())
}

func TestQuizQuestion_IsCorrect(t *testing.T) {
	single := QuizQuestion{Type: QuestionSingleChoice, CorrectOptions: []int{2}}
	assert.True(t, single.IsCorrect(QuizAnswer{Selected: []int{2}}))
	assert.False(t, single.IsCorrect(QuizAnswer{Selected: []int{2, 1}}))
	assert.False(t, single.IsCorrect(QuizAnswer{}))

	multi := QuizQuestion{Type: QuestionMultipleChoice, CorrectOptions: []int{1, 3}}
	assert.True(t, multi.IsCorrect(QuizAnswer{Selected: []int{3, 1}}))
	assert.False(t, multi.IsCorrect(QuizAnswer{Selected: []int{1}}))
	assert.False(t, multi.IsCorrect(QuizAnswer{Selected: []int{1, 2, 3}}))

	text := QuizQuestion{Type: QuestionTextInput, Options: []string{"ROI", "return on investment"}, CorrectOptions: []int{0, 1}}
	assert.True(t, text.IsCorrect(QuizAnswer{Text: "roi"}))
	assert.True(t, text.IsCorrect(QuizAnswer{Text: "Return On  Investment"}))
	assert.False(t, text.IsCorrect(QuizAnswer{Text: ""}))
	assert.False(t, text.IsCorrect(QuizAnswer{Text: "profit"}))
}
