package taxonomy

import "github.com/jonesrussell/script-breakdown/internal/domain"

// Default confidence thresholds. Common nouns ("صوت") need corroboration from
// context patterns, so their rules carry a higher threshold.
const (
	thresholdDefault = 0.25
	thresholdCommon  = 0.4
)

// defaultRules is the built-in taxonomy table for Arabic screenplays: one rule
// per category. Keyword order matters: the first keyword found in the text
// decides the evidence span, so concrete nouns come before generic ones.
var defaultRules = []domain.ClassificationRule{
	{
		Category: domain.CategoryCast,
		Keywords: []string{"رجل", "امرأة", "شاب", "فتاة", "طفل", "عجوز", "ضابط", "طبيب", "سائق"},
		ContextPatterns: []string{
			`يقول|تقول|يتحدث|تتحدث`,
			`ينظر|تنظر|يبتسم|تبتسم`,
		},
		ExclusionPatterns:   []string{`صورة\s+(?:رجل|امرأة)`, `تمثال`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            10,
	},
	{
		Category:            domain.CategoryExtras,
		Keywords:            []string{"مجاميع", "حشد", "جمهور", "مارة", "زبائن", "ركاب"},
		ContextPatterns:     []string{`في\s+الخلفية`, `يمرون|تتجمع`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            20,
	},
	{
		Category:            domain.CategoryStunts,
		Keywords:            []string{"مطاردة", "قتال", "شجار", "يقفز", "سقوط", "اصطدام"},
		ContextPatterns:     []string{`من\s+ارتفاع`, `بسرعة\s+جنونية`},
		ExclusionPatterns:   []string{`مطاردة\s+صحفية`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            30,
	},
	{
		Category:            domain.CategoryAnimals,
		Keywords:            []string{"كلب", "قطة", "حصان", "حمار", "طيور", "أغنام"},
		ContextPatterns:     []string{`ينبح|تموء|يصهل`},
		ExclusionPatterns:   []string{`لعبة\s+على\s+شكل`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            40,
	},
	{
		Category:            domain.CategoryAnimalHandler,
		Keywords:            []string{"مدرب حيوانات", "مروض", "سايس"},
		ContextPatterns:     []string{`يدرب|يروض`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            50,
	},
	{
		Category:            domain.CategorySecurity,
		Keywords:            []string{"حارس أمن", "حراسة", "تأمين الموقع", "بوابة أمنية"},
		ContextPatterns:     []string{`يحرس|يفتش`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            60,
	},
	{
		Category:            domain.CategoryAdditionalLabor,
		Keywords:            []string{"عمال", "فني", "مساعد إنتاج", "منظم"},
		ContextPatterns:     []string{`ينقلون|يجهزون`},
		ConfidenceThreshold: thresholdCommon,
		Priority:            70,
	},
	{
		Category: domain.CategoryProps,
		Keywords: []string{
			"كوب", "فنجان", "كأس", "قهوة", "هاتف", "موبايل", "حقيبة", "شنطة",
			"مفتاح", "نظارة", "ظرف", "رسالة", "كتاب", "قلم", "مسدس", "سكين",
			"صحيفة", "مجلة", "ساعة يد",
		},
		ContextPatterns: []string{
			`يحمل|تحمل|يمسك|تمسك`,
			`يأخذ|يناول|في\s+يده|في\s+يدها`,
		},
		ExclusionPatterns:   []string{`يجلس\s+على`, `أثاث|ديكور`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            80,
	},
	{
		Category:            domain.CategoryWardrobe,
		Keywords:            []string{"فستان", "بدلة", "قميص", "معطف", "عباءة", "حذاء", "زي رسمي", "ملابس"},
		ContextPatterns:     []string{`يرتدي|ترتدي|يلبس|تلبس`},
		ExclusionPatterns:   []string{`محل\s+ملابس`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            90,
	},
	{
		Category:            domain.CategoryMakeupHair,
		Keywords:            []string{"ندبة", "جرح", "دماء", "كدمة", "شعر مستعار", "لحية مستعارة", "مكياج"},
		ContextPatterns:     []string{`على\s+وجهه|على\s+وجهها`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            100,
	},
	{
		Category: domain.CategoryVehicles,
		Keywords: []string{
			"سيارة", "عربية", "تاكسي", "أتوبيس", "حافلة", "ميكروباص",
			"موتوسيكل", "دراجة نارية", "طائرة", "قارب",
		},
		ContextPatterns:     []string{`يقود|تقود|يركب|تركب|يستقل`},
		ExclusionPatterns:   []string{`سيارة\s+لعبة`, `كرسي\s+متحرك`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            110,
	},
	{
		Category: domain.CategorySetDressing,
		Keywords: []string{
			"كرسي", "طاولة", "منضدة", "سرير", "مرآة", "خزانة", "دولاب",
			"ستارة", "لوحة", "أريكة", "رف",
		},
		ContextPatterns:     []string{`يجلس\s+على|أمام|بجوار|خلف`},
		ExclusionPatterns:   []string{`كرسي\s+متحرك`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            120,
	},
	{
		Category:            domain.CategoryGreenery,
		Keywords:            []string{"شجرة", "أشجار", "حديقة", "زهور", "نباتات", "عشب"},
		ConfidenceThreshold: thresholdDefault,
		Priority:            130,
	},
	{
		Category:            domain.CategorySpecialEffects,
		Keywords:            []string{"انفجار", "حريق", "دخان", "نيران", "أمطار صناعية", "ضباب"},
		ContextPatterns:     []string{`يشتعل|تشتعل|ينفجر`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            140,
	},
	{
		Category:            domain.CategoryVisualEffects,
		Keywords:            []string{"خدع بصرية", "شاشة خضراء", "مؤثرات رقمية", "جرافيك"},
		ConfidenceThreshold: thresholdDefault,
		Priority:            150,
	},
	{
		Category:            domain.CategoryMechanicalEffects,
		Keywords:            []string{"تحطم", "انهيار", "آلية خاصة", "ونش"},
		ContextPatterns:     []string{`ينهار|يتحطم`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            160,
	},
	{
		Category:            domain.CategorySound,
		Keywords:            []string{"أزيز", "صراخ", "ضجيج", "دوي", "صوت"},
		ContextPatterns:     []string{`يسمع|تسمع|يُسمع`},
		ExclusionPatterns:   []string{`صوت\s+منخفض`},
		ConfidenceThreshold: thresholdCommon,
		Priority:            170,
	},
	{
		Category:            domain.CategoryMusic,
		Keywords:            []string{"موسيقى", "أغنية", "عزف", "لحن"},
		ContextPatterns:     []string{`تُعزف|يغني|تغني`},
		ConfidenceThreshold: thresholdDefault,
		Priority:            180,
	},
	{
		Category:            domain.CategoryCamera,
		Keywords:            []string{"لقطة مقربة", "زوم", "تصوير بطيء", "كاميرا محمولة"},
		ConfidenceThreshold: thresholdDefault,
		Priority:            190,
	},
	{
		Category:            domain.CategorySpecialEquipment,
		Keywords:            []string{"كرين", "رافعة تصوير", "ستيدي كام", "معدات إضاءة"},
		ConfidenceThreshold: thresholdDefault,
		Priority:            200,
	},
	{
		Category:            domain.CategoryMiscellaneous,
		Keywords:            []string{"لافتة", "ملصق", "وثيقة", "خريطة"},
		ConfidenceThreshold: thresholdCommon,
		Priority:            210,
	},
}

// DefaultRules returns a copy of the built-in rule table.
func DefaultRules() []domain.ClassificationRule {
	out := make([]domain.ClassificationRule, len(defaultRules))
	copy(out, defaultRules)
	return out
}
