package selection

const (
	MessageNoSession       = "جلسه جستجو فعال نیست. لطفا ابتدا جستجو کنید."
	MessageAlreadySelected = "در هر جستجو فقط می‌توانید یک محصول انتخاب کنید."
	MessageEmptyCart       = "هیچ محصولی انتخاب نشده است"

	MessageLoadFailed    = "خطا در بارگذاری محصولات انتخابی"
	MessageSelectFailed  = "خطا در انتخاب محصول"
	MessageRemoveFailed  = "خطا در حذف محصول"
	MessageConfirmFailed = "خطا در تایید سبد خرید"
	MessageClearFailed   = "خطا در پاک کردن تمام محصولات"
)
