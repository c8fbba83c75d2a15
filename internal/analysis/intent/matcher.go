package intent

import (
	"regexp"
	"strings"
)

// Intent is the classified purpose of a visitor message.
type Intent string

const (
	Unknown       Intent = "unknown"
	Greeting      Intent = "greeting"
	About         Intent = "about"
	Skills        Intent = "skills"
	Contact       Intent = "contact"
	EmailJob      Intent = "email_job"
	EmailProject  Intent = "email_project"
	EmailGeneral  Intent = "email_general"
	EmailWebsite  Intent = "email_website"
	EmailMobile   Intent = "email_mobile"
	EmailAI       Intent = "email_ai"
	EmailSecurity Intent = "email_security"
	Projects      Intent = "projects"
	Thanks        Intent = "thanks"
	Hire          Intent = "hire"
	Resume        Intent = "resume"
	Services      Intent = "services"
	WebsiteInfo   Intent = "website_info"
	MobileInfo    Intent = "mobile_info"
	WebDesign     Intent = "web_design"
)

// Rule resolves to Intent when every pattern matches the normalized input.
type Rule struct {
	Intent   Intent
	patterns []*regexp.Regexp
}

// NewRule compiles patterns as case-insensitive, unanchored expressions.
func NewRule(in Intent, patterns ...string) Rule {
	compiled := make([]*regexp.Regexp, 0, len(patterns))
	for _, p := range patterns {
		compiled = append(compiled, regexp.MustCompile("(?i)"+p))
	}
	return Rule{Intent: in, patterns: compiled}
}

// Matches reports whether all pattern groups of the rule hit text.
func (r Rule) Matches(text string) bool {
	if len(r.patterns) == 0 {
		return false
	}
	for _, p := range r.patterns {
		if !p.MatchString(text) {
			return false
		}
	}
	return true
}

// Rules returns the responder rules in evaluation order. Earlier rules shadow
// later ones: "hi" also matches inside "hire" or "this", and "email" wins over
// the email-draft rules that mention it.
func Rules() []Rule {
	return []Rule{
		NewRule(Greeting, `hello|hi|hey|greetings`),
		NewRule(About, `about|who|john`),
		NewRule(Skills, `skill|can do|experience|expertise`),
		NewRule(Contact, `contact|email|reach`),
		NewRule(EmailJob, `send.*email.*job|job opportunity`),
		NewRule(EmailProject, `send.*email.*project|discuss.*project|project collaboration`),
		NewRule(EmailGeneral, `general inquiry`),
		NewRule(EmailWebsite, `website`, `built|develop|create|make`),
		NewRule(EmailMobile, `mobile app|android`, `develop|create|build`),
		NewRule(EmailAI, `ai|ml|machine learning|artificial intelligence`, `need|want|interested|integrate`),
		NewRule(EmailSecurity, `security|secure|cybersecurity`, `need|want|interested|develop`),
		NewRule(Projects, `project|work|portfolio`),
		NewRule(Thanks, `thanks|thank you|appreciate`),
		NewRule(Hire, `hire|job|opportunity|work with`),
		NewRule(Resume, `resume|cv|yes.*resume|show.*resume`),
		NewRule(Services, `service|offer|provide`),
		NewRule(WebsiteInfo, `website|web app|web application`),
		NewRule(MobileInfo, `mobile|app|ios|android`),
		NewRule(WebDesign, `web design|interface`),
	}
}

// Matcher evaluates rules top to bottom; the first match wins.
type Matcher struct {
	rules []Rule
}

// NewMatcher returns a Matcher over rules in the given order.
func NewMatcher(rules []Rule) *Matcher {
	return &Matcher{rules: append([]Rule(nil), rules...)}
}

var defaultMatcher = NewMatcher(Rules())

// Classify resolves text against the default rule table.
func Classify(text string) Intent {
	return defaultMatcher.Classify(text)
}

// Classify returns the intent of the first matching rule, or Unknown.
func (m *Matcher) Classify(text string) Intent {
	normalized := Normalize(text)
	if normalized == "" {
		return Unknown
	}
	for _, rule := range m.rules {
		if rule.Matches(normalized) {
			return rule.Intent
		}
	}
	return Unknown
}

// Normalize trims and lowercases visitor input.
func Normalize(text string) string {
	return strings.ToLower(strings.TrimSpace(text))
}

// IsEmailDraft reports whether in resolves to an email side effect.
func (in Intent) IsEmailDraft() bool {
	switch in {
	case EmailJob, EmailProject, EmailGeneral, EmailWebsite, EmailMobile, EmailAI, EmailSecurity:
		return true
	default:
		return false
	}
}
