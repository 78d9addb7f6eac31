package portfolio

// Defaults supplies the content shown while the store is still empty.
// Implementations must return fresh values on every call.
type Defaults interface {
	Profile() *Profile
	Skills() []*Skill
}

// BuiltinDefaults is the shipped placeholder content.
type BuiltinDefaults struct{}

// NewBuiltinDefaults returns the shipped placeholder content.
func NewBuiltinDefaults() Defaults {
	return BuiltinDefaults{}
}

func (BuiltinDefaults) Profile() *Profile {
	empty := ""
	return &Profile{
		Name:          "Pankaj Kumar",
		Location:      "Panchkula, Haryana",
		Profession:    "Video Editor, Music Producer & Graphic Designer",
		Bio:           "Creative professional passionate about visual storytelling, music production, and graphic design. I bring ideas to life through innovative digital content.",
		ContactNumber: strPtr(empty),
		FatherName:    strPtr(empty),
		SocialLinks: SocialLinks{
			Whatsapp:  strPtr(empty),
			Instagram: strPtr(empty),
			Youtube:   strPtr(empty),
		},
	}
}

var builtinSkills = []Skill{
	{Name: "Video Editing", Category: "Creative", Level: 95, Icon: "🎬", Description: "Professional video editing with advanced techniques"},
	{Name: "Music Production", Category: "Audio", Level: 90, Icon: "🎵", Description: "Music composition and audio production"},
	{Name: "Graphic Design", Category: "Design", Level: 85, Icon: "🎨", Description: "Visual design and brand identity creation"},
	{Name: "Adobe Premiere Pro", Category: "Software", Level: 95, Icon: "🔧", Description: "Advanced video editing and post-production"},
	{Name: "After Effects", Category: "Software", Level: 80, Icon: "✨", Description: "Motion graphics and visual effects"},
	{Name: "Photoshop", Category: "Software", Level: 85, Icon: "🖼️", Description: "Photo editing and digital art creation"},
}

func (BuiltinDefaults) Skills() []*Skill {
	skills := make([]*Skill, len(builtinSkills))
	for i := range builtinSkills {
		s := builtinSkills[i]
		skills[i] = &s
	}
	return skills
}

// emptyDefaults disables the fallback.
type emptyDefaults struct{}

func (emptyDefaults) Profile() *Profile { return nil }
func (emptyDefaults) Skills() []*Skill  { return nil }

func strPtr(s string) *string {
	return &s
}
