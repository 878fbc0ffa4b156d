package i18n

import pkgerrors "github.com/angelmondragon/bazaar-backend/pkg/errors"

var arabicPublicMessages = map[pkgerrors.Code]string{
	pkgerrors.CodeValidation:        "فشل التحقق من البيانات",
	pkgerrors.CodeInsufficientStock: "الكمية المطلوبة غير متوفرة",
	pkgerrors.CodeUnauthorized:      "يلزم تسجيل الدخول",
	pkgerrors.CodeForbidden:         "تم رفض الوصول",
	pkgerrors.CodeNotFound:          "المورد غير موجود",
	pkgerrors.CodeConflict:          "يوجد تعارض في البيانات",
	pkgerrors.CodeIdempotency:       "تم استخدام مفتاح التكرار لطلب مختلف",
	pkgerrors.CodeRateLimit:         "تم تجاوز حد الطلبات",
	pkgerrors.CodeInternal:          "خطأ داخلي في الخادم",
	pkgerrors.CodeDependency:        "الخدمة غير متاحة مؤقتا",
}

// PublicMessage returns the generic client-facing message for code in lang.
func PublicMessage(code pkgerrors.Code, lang Lang) string {
	if lang == AR {
		if msg, ok := arabicPublicMessages[code]; ok {
			return msg
		}
	}
	return pkgerrors.MetadataFor(code).PublicMessage
}
