package i18n

import (
	"fmt"

	"github.com/shopspring/decimal"

	"github.com/angelmondragon/bazaar-backend/pkg/enums"
	"github.com/angelmondragon/bazaar-backend/pkg/types"
)

type pair struct {
	en string
	ar string
}

func (p pair) in(lang Lang) string {
	if lang == AR {
		return p.ar
	}
	return p.en
}

var cartStatusText = map[enums.CartStatus]pair{
	enums.CartStatusActive:    {"Active", "نشط"},
	enums.CartStatusAbandoned: {"Abandoned", "مهجور"},
	enums.CartStatusConverted: {"Converted", "تم التحويل"},
}

var orderStatusText = map[enums.OrderStatus]pair{
	enums.OrderStatusPending:    {"Pending", "قيد الانتظار"},
	enums.OrderStatusProcessing: {"Processing", "قيد المعالجة"},
	enums.OrderStatusShipped:    {"Shipped", "تم الشحن"},
	enums.OrderStatusDelivered:  {"Delivered", "تم التسليم"},
	enums.OrderStatusCancelled:  {"Cancelled", "ملغي"},
}

var paymentMethodText = map[enums.PaymentMethod]pair{
	enums.PaymentMethodCash:         {"Cash", "نقدي"},
	enums.PaymentMethodCreditCard:   {"Credit Card", "بطاقة ائتمان"},
	enums.PaymentMethodBankTransfer: {"Bank Transfer", "تحويل بنكي"},
}

var paymentStatusText = map[enums.PaymentStatus]pair{
	enums.PaymentStatusPending:  {"Pending", "قيد الانتظار"},
	enums.PaymentStatusPaid:     {"Paid", "مدفوع"},
	enums.PaymentStatusFailed:   {"Failed", "فشل"},
	enums.PaymentStatusRefunded: {"Refunded", "مسترد"},
}

// Unknown values fall back to their raw string.
func CartStatus(s enums.CartStatus, lang Lang) string {
	if p, ok := cartStatusText[s]; ok {
		return p.in(lang)
	}
	return s.String()
}

func OrderStatus(s enums.OrderStatus, lang Lang) string {
	if p, ok := orderStatusText[s]; ok {
		return p.in(lang)
	}
	return s.String()
}

func PaymentMethod(m enums.PaymentMethod, lang Lang) string {
	if p, ok := paymentMethodText[m]; ok {
		return p.in(lang)
	}
	return m.String()
}

func PaymentStatus(s enums.PaymentStatus, lang Lang) string {
	if p, ok := paymentStatusText[s]; ok {
		return p.in(lang)
	}
	return s.String()
}

// Text resolves a bilingual value: requested language, then English, then Arabic.
func Text(t types.LocalizedText, lang Lang) string {
	t = t.Trimmed()
	if lang == AR && t.AR != "" {
		return t.AR
	}
	if t.EN != "" {
		return t.EN
	}
	return t.AR
}

// OptionalText resolves a nullable bilingual value to "" when absent.
func OptionalText(t *types.LocalizedText, lang Lang) string {
	if t == nil {
		return ""
	}
	return Text(*t, lang)
}

// DiscountText describes the applied discount with its optional description.
func DiscountText(percent decimal.Decimal, description *types.LocalizedText, lang Lang) string {
	if !percent.IsPositive() {
		return pair{"No discount applied", "لم يتم تطبيق أي خصم"}.in(lang)
	}
	var text string
	if lang == AR {
		text = fmt.Sprintf("تم تطبيق خصم %s%%", percent.String())
	} else {
		text = fmt.Sprintf("%s%% discount applied", percent.String())
	}
	if desc := OptionalText(description, lang); desc != "" {
		text += ": " + desc
	}
	return text
}

// AddressText is the single-language rendering of a shipping address.
type AddressText struct {
	Address    string `json:"address"`
	City       string `json:"city"`
	Country    string `json:"country"`
	PostalCode string `json:"postalCode"`
}

func Address(a types.ShippingAddress, lang Lang) AddressText {
	return AddressText{
		Address:    Text(a.Address, lang),
		City:       Text(a.City, lang),
		Country:    Text(a.Country, lang),
		PostalCode: a.PostalCode,
	}
}
