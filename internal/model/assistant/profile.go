package assistant

// Profile captures the widget persona exposed to the frontend.
type Profile struct {
	ID          string  `json:"id"`
	Name        string  `json:"name"`
	OwnerName   string  `json:"ownerName"`
	OwnerEmail  string  `json:"ownerEmail"`
	Greeting    string  `json:"greeting"`
	ResumePath  string  `json:"resumePath"`
	SoundURL    string  `json:"soundUrl"`
	SoundVolume float64 `json:"soundVolume"`
}

const (
	DefaultID          = "jac"
	DefaultOwnerEmail  = "johnandreicabili@gmail.com"
	DefaultResumePath  = "/resume"
	DefaultSoundURL    = "https://assets.mixkit.co/active_storage/sfx/933/933-preview.mp3"
	DefaultSoundVolume = 0.6
)

// Seed provides the portfolio assistant persona.
func Seed() []Profile {
	return []Profile{
		{
			ID:          DefaultID,
			Name:        "JAC",
			OwnerName:   "John Andrei Cabili",
			OwnerEmail:  DefaultOwnerEmail,
			Greeting:    "Hi there! I'm JAC, John's virtual assistant. I'm here to help you learn about his full-stack development expertise and AI/ML integration capabilities. How can I assist you today?",
			ResumePath:  DefaultResumePath,
			SoundURL:    DefaultSoundURL,
			SoundVolume: DefaultSoundVolume,
		},
	}
}

// WithOverrides returns a copy of p with non-empty deployment settings applied.
func (p Profile) WithOverrides(ownerEmail, resumePath, soundURL string) Profile {
	if ownerEmail != "" {
		p.OwnerEmail = ownerEmail
	}
	if resumePath != "" {
		p.ResumePath = resumePath
	}
	if soundURL != "" {
		p.SoundURL = soundURL
	}
	return p
}
