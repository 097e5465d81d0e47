package taxonomy

import "github.com/jonesrussell/script-breakdown/internal/domain"

// neutralColor is used for categories without a palette entry.
const neutralColor = "#CCCCCC"

// defaultDepartment is used for categories without a department entry.
const defaultDepartment = "Production"

// categoryFamilies groups the 21 categories into the four reporting families.
// Membership here also defines the set of known categories.
var categoryFamilies = map[domain.Category]domain.Family{
	domain.CategoryCast:            domain.FamilyPeople,
	domain.CategoryExtras:          domain.FamilyPeople,
	domain.CategoryStunts:          domain.FamilyPeople,
	domain.CategoryAnimals:         domain.FamilyPeople,
	domain.CategoryAnimalHandler:   domain.FamilyPeople,
	domain.CategorySecurity:        domain.FamilyPeople,
	domain.CategoryAdditionalLabor: domain.FamilyPeople,

	domain.CategoryProps:      domain.FamilyHandheld,
	domain.CategoryWardrobe:   domain.FamilyHandheld,
	domain.CategoryMakeupHair: domain.FamilyHandheld,

	domain.CategoryVehicles:    domain.FamilyEnvironment,
	domain.CategorySetDressing: domain.FamilyEnvironment,
	domain.CategoryGreenery:    domain.FamilyEnvironment,

	domain.CategorySpecialEffects:    domain.FamilyServices,
	domain.CategoryVisualEffects:     domain.FamilyServices,
	domain.CategoryMechanicalEffects: domain.FamilyServices,
	domain.CategorySound:             domain.FamilyServices,
	domain.CategoryMusic:             domain.FamilyServices,
	domain.CategoryCamera:            domain.FamilyServices,
	domain.CategorySpecialEquipment:  domain.FamilyServices,
	domain.CategoryMiscellaneous:     domain.FamilyServices,
}

// displayNames maps categories to Arabic display names used in element
// descriptions and sheet headers.
var displayNames = map[domain.Category]string{
	domain.CategoryCast:              "ممثلون",
	domain.CategoryExtras:            "مجاميع",
	domain.CategoryStunts:            "مشاهد خطرة",
	domain.CategoryAnimals:           "حيوانات",
	domain.CategoryAnimalHandler:     "مدرب حيوانات",
	domain.CategorySecurity:          "أمن",
	domain.CategoryAdditionalLabor:   "عمالة إضافية",
	domain.CategoryProps:             "دعائم",
	domain.CategoryWardrobe:          "أزياء",
	domain.CategoryMakeupHair:        "مكياج وشعر",
	domain.CategoryVehicles:          "مركبات",
	domain.CategorySetDressing:       "ديكور",
	domain.CategoryGreenery:          "نباتات",
	domain.CategorySpecialEffects:    "مؤثرات خاصة",
	domain.CategoryVisualEffects:     "مؤثرات بصرية",
	domain.CategoryMechanicalEffects: "مؤثرات ميكانيكية",
	domain.CategorySound:             "صوت",
	domain.CategoryMusic:             "موسيقى",
	domain.CategoryCamera:            "كاميرا",
	domain.CategorySpecialEquipment:  "معدات خاصة",
	domain.CategoryMiscellaneous:     "متنوعات",
}

// colorPalette follows the Celtx-standard breakdown sheet colors. Categories
// without an entry render with the neutral default.
var colorPalette = map[domain.Category]string{
	domain.CategoryCast:           "#FF6B6B",
	domain.CategoryExtras:         "#4ECDC4",
	domain.CategoryProps:          "#95E1D3",
	domain.CategoryVehicles:       "#F38181",
	domain.CategoryWardrobe:       "#AA96DA",
	domain.CategoryMakeupHair:     "#FCBAD3",
	domain.CategorySpecialEffects: "#FFFFD2",
	domain.CategorySound:          "#A8D8EA",
	domain.CategoryMusic:          "#FFCCCC",
	domain.CategoryAnimals:        "#C7CEEA",
	domain.CategoryStunts:         "#FF8B94",
	domain.CategorySecurity:       "#FBE7C6",
	domain.CategorySetDressing:    "#FFAEBC",
	domain.CategoryGreenery:       "#B4F8C8",
}

// priorityLevels assigns sheet priorities. Categories without an entry are
// low priority.
var priorityLevels = map[domain.Category]domain.PriorityLevel{
	domain.CategoryCast:           domain.PriorityHigh,
	domain.CategoryVehicles:       domain.PriorityHigh,
	domain.CategoryStunts:         domain.PriorityHigh,
	domain.CategorySpecialEffects: domain.PriorityHigh,
	domain.CategoryProps:          domain.PriorityMedium,
	domain.CategoryWardrobe:       domain.PriorityMedium,
	domain.CategorySetDressing:    domain.PriorityMedium,
}

// departments maps categories to the production department receiving the
// sheet.
var departments = map[domain.Category]string{
	domain.CategoryCast:              "Casting",
	domain.CategoryExtras:            "Casting",
	domain.CategoryStunts:            "Stunts",
	domain.CategoryAnimals:           "Animal Wrangling",
	domain.CategoryAnimalHandler:     "Animal Wrangling",
	domain.CategorySecurity:          "Locations",
	domain.CategoryAdditionalLabor:   "Production Office",
	domain.CategoryProps:             "Props",
	domain.CategoryWardrobe:          "Costume",
	domain.CategoryMakeupHair:        "Makeup & Hair",
	domain.CategoryVehicles:          "Transportation",
	domain.CategorySetDressing:       "Art Department",
	domain.CategoryGreenery:          "Art Department",
	domain.CategorySpecialEffects:    "Special Effects",
	domain.CategoryVisualEffects:     "Post Production",
	domain.CategoryMechanicalEffects: "Special Effects",
	domain.CategorySound:             "Sound",
	domain.CategoryMusic:             "Post Production",
	domain.CategoryCamera:            "Camera",
	domain.CategorySpecialEquipment:  "Grip & Electric",
}

// FamilyOf returns the family a category belongs to.
func FamilyOf(cat domain.Category) (domain.Family, bool) {
	f, ok := categoryFamilies[cat]
	return f, ok
}

// DisplayName returns the display name for a category, falling back to the
// raw identifier.
func DisplayName(cat domain.Category) string {
	if name, ok := displayNames[cat]; ok {
		return name
	}
	return string(cat)
}

// ColorCode returns the sheet color for a category.
func ColorCode(cat domain.Category) string {
	if c, ok := colorPalette[cat]; ok {
		return c
	}
	return neutralColor
}

// Priority returns the sheet priority level for a category.
func Priority(cat domain.Category) domain.PriorityLevel {
	if p, ok := priorityLevels[cat]; ok {
		return p
	}
	return domain.PriorityLow
}

// Department returns the department a category's sheet is handed to.
func Department(cat domain.Category) string {
	if d, ok := departments[cat]; ok {
		return d
	}
	return defaultDepartment
}
