package responder

import (
	"math/rand/v2"
	"regexp"
	"sync"
	"time"

	"github.com/johncabili/portfolio/backend/internal/analysis/intent"
	"github.com/johncabili/portfolio/backend/internal/model/assistant"
	"github.com/johncabili/portfolio/backend/internal/model/chat"
	"github.com/johncabili/portfolio/backend/internal/model/email"
)

// EffectKind names a side effect the client performs after a reply.
type EffectKind string

const (
	EffectEmail    EffectKind = "email"
	EffectNavigate EffectKind = "navigate"
)

// Effect describes a deferred side effect. Delay counts from the moment the
// reply is shown (or the quick reply is clicked).
type Effect struct {
	Kind     EffectKind    `json:"kind"`
	Template email.Kind    `json:"template,omitempty"`
	URI      string        `json:"uri,omitempty"`
	Path     string        `json:"path,omitempty"`
	Delay    time.Duration `json:"-"`
}

// Reply is the pure outcome of classifying one input.
type Reply struct {
	Intent  intent.Intent `json:"intent"`
	Text    string        `json:"text"`
	Topic   chat.Topic    `json:"topic,omitempty"`
	Retopic bool          `json:"-"`
	Effects []Effect      `json:"effects,omitempty"`
}

const DefaultReply = "I'm not sure I understand. Could you tell me more about what you're looking for?"

var greetings = []string{
	"Hello there! How can I help you learn about John's full-stack development and AI/ML expertise?",
	"Hi! Nice to meet you. What brings you to John's portfolio?",
	"Hey! I'm here to help. What would you like to know about John's Computer Science background and professional experience?",
}

var thanks = []string{
	"You're welcome! Let me know if you need anything else.",
	"No problem at all! Feel free to reach out anytime.",
	"Glad I could help! Is there anything else you'd like to know?",
}

type outcome struct {
	text     string
	topic    chat.Topic
	retopic  bool
	draft    email.Kind
	navigate bool
}

var outcomes = map[intent.Intent]outcome{
	intent.About:         {text: "John is a Computer Science graduate from Adamson University, achieving Summa Cum Laude honors as the Top 2 Performing Computer Science Student. He specializes in full-stack development, AI/ML integration, and secure software practices with professional experience at OTis Philippines Inc.", topic: chat.TopicHello, retopic: true},
	intent.Skills:        {text: "John specializes in full-stack development using Java, Kotlin, Python, React, and TypeScript. He has professional experience in AI/ML integration, secure software development, and cloud & API integration. What specific skills are you interested in?", topic: chat.TopicHire, retopic: true},
	intent.Contact:       {text: "Would you like me to open your email client to contact John directly? I can help you format an appropriate message.", topic: chat.TopicContact, retopic: true},
	intent.EmailJob:      {text: "Opening your email client to contact John about a job opportunity...", draft: email.KindJob},
	intent.EmailProject:  {text: "Opening your email client to discuss a potential project with John...", draft: email.KindProject},
	intent.EmailGeneral:  {text: "Opening your email client for a general inquiry to John...", draft: email.KindGeneral},
	intent.EmailWebsite:  {text: "Opening your email client to discuss full-stack web development with John...", draft: email.KindWebsite},
	intent.EmailMobile:   {text: "Opening your email client to discuss Android app development with John...", draft: email.KindMobile},
	intent.EmailAI:       {text: "Opening your email client to discuss AI/ML integration with John...", draft: email.KindAI},
	intent.EmailSecurity: {text: "Opening your email client to discuss secure software development with John...", draft: email.KindSecurity},
	intent.Projects:      {text: "John has worked on projects like Mangosoft (CNN-based mango classification with price estimation) and OSCA Management System, plus professional experience as a Software Development and AI Intern at OTis Philippines Inc. Would you like to see some examples or discuss a potential collaboration?", topic: chat.TopicServices, retopic: true},
	intent.Hire:          {text: "Thank you for your interest in working with John! As a Summa Cum Laude Computer Science graduate with professional AI/ML experience, he's currently open to new opportunities. Would you like to discuss a job position or project collaboration?", topic: chat.TopicHire, retopic: true},
	intent.Resume:        {text: "I'm redirecting you to John's resume page where you can view his complete professional background.", navigate: true},
	intent.Services:      {text: "John offers several services including:\n\n• Full-stack development (React, Kotlin, Python)\n• AI & Machine Learning integration\n• Secure software development\n• Mobile app development (Android)\n• Cloud & API integration\n\nWhich service are you most interested in?", topic: chat.TopicServices, retopic: true},
	intent.WebsiteInfo:   {text: "John has extensive experience building modern, responsive websites with React. Would you like to discuss your project with him directly?", topic: chat.TopicServices, retopic: true},
	intent.MobileInfo:    {text: "John develops cross-platform mobile applications using React Native. Would you like to email him about your mobile app idea?", topic: chat.TopicServices, retopic: true},
	intent.WebDesign:     {text: "John creates intuitive and appealing web designs. Would you like to see some examples or contact him about your project?", topic: chat.TopicServices, retopic: true},
}

// quickActions are suggestion labels that act directly instead of posting a message.
var quickActions = map[string]email.Kind{
	"Send an email about a job":   email.KindJob,
	"Discuss a project":           email.KindProject,
	"Job opportunity":             email.KindJob,
	"Project collaboration":       email.KindProject,
	"General inquiry":             email.KindGeneral,
	"Need a website built":        email.KindWebsite,
	"Interested in Web Design":    email.KindWebsite,
	"Mobile app development":      email.KindMobile,
	"AI/ML integration needed":    email.KindAI,
	"Secure software development": email.KindSecurity,
}

const showResumeLabel = "Yes, show me the resume"

var (
	resumeMention = regexp.MustCompile(`(?i)resume|cv`)
	resumeConsent = regexp.MustCompile(`(?i)show|see|view|yes`)
)

// Options configures a Responder. Zero values fall back to the widget defaults.
type Options struct {
	OwnerEmail    string
	ResumePath    string
	EffectDelay   time.Duration
	FollowUpDelay time.Duration
	Matcher       *intent.Matcher
	Rand          *rand.Rand
}

// Responder maps visitor input to canned replies and side effect descriptors.
type Responder struct {
	ownerEmail    string
	resumePath    string
	effectDelay   time.Duration
	followUpDelay time.Duration
	matcher       *intent.Matcher

	mu  sync.Mutex
	rnd *rand.Rand
}

// New builds a Responder from opts.
func New(opts Options) *Responder {
	r := &Responder{
		ownerEmail:    opts.OwnerEmail,
		resumePath:    opts.ResumePath,
		effectDelay:   opts.EffectDelay,
		followUpDelay: opts.FollowUpDelay,
		matcher:       opts.Matcher,
		rnd:           opts.Rand,
	}
	if r.ownerEmail == "" {
		r.ownerEmail = assistant.DefaultOwnerEmail
	}
	if r.resumePath == "" {
		r.resumePath = assistant.DefaultResumePath
	}
	if r.effectDelay <= 0 {
		r.effectDelay = time.Second
	}
	if r.followUpDelay <= 0 {
		r.followUpDelay = 1500 * time.Millisecond
	}
	if r.matcher == nil {
		r.matcher = intent.NewMatcher(intent.Rules())
	}
	if r.rnd == nil {
		r.rnd = rand.New(rand.NewPCG(uint64(time.Now().UnixNano()), 0x6a6163))
	}
	return r
}

// Respond classifies text and builds the reply. It never fails: unmatched
// input yields DefaultReply.
func (r *Responder) Respond(text string) Reply {
	in := r.matcher.Classify(text)
	reply := Reply{Intent: in}

	switch in {
	case intent.Greeting:
		reply.Text = r.pick(greetings)
		reply.Topic, reply.Retopic = chat.TopicHello, true
	case intent.Thanks:
		reply.Text = r.pick(thanks)
		reply.Topic, reply.Retopic = chat.TopicInitial, true
	case intent.Unknown:
		reply.Text = DefaultReply
	default:
		out := outcomes[in]
		reply.Text = out.text
		reply.Topic, reply.Retopic = out.topic, out.retopic
		if out.draft != "" {
			reply.Effects = append(reply.Effects, r.draft(out.draft, r.effectDelay))
		}
		if out.navigate {
			reply.Effects = append(reply.Effects, r.navigate(r.effectDelay))
		}
	}

	if resumeMention.MatchString(text) && resumeConsent.MatchString(text) && !hasNavigation(reply.Effects) {
		reply.Effects = append(reply.Effects, r.navigate(r.followUpDelay))
	}
	return reply
}

// QuickAction resolves suggestion labels that trigger an effect directly.
// Other labels should be handled as typed text.
func (r *Responder) QuickAction(label string) (Effect, bool) {
	if label == showResumeLabel {
		return r.navigate(r.effectDelay), true
	}
	kind, ok := quickActions[label]
	if !ok {
		return Effect{}, false
	}
	return r.draft(kind, 0), true
}

// Draft builds an immediate email effect for kind.
func (r *Responder) Draft(kind email.Kind) (Effect, bool) {
	if _, ok := email.Lookup(kind); !ok {
		return Effect{}, false
	}
	return r.draft(kind, 0), true
}

func (r *Responder) draft(kind email.Kind, delay time.Duration) Effect {
	tmpl, _ := email.Lookup(kind)
	return Effect{
		Kind:     EffectEmail,
		Template: kind,
		URI:      email.Mailto(r.ownerEmail, tmpl),
		Delay:    delay,
	}
}

func (r *Responder) navigate(delay time.Duration) Effect {
	return Effect{Kind: EffectNavigate, Path: r.resumePath, Delay: delay}
}

func (r *Responder) pick(variants []string) string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return variants[r.rnd.IntN(len(variants))]
}

func hasNavigation(effects []Effect) bool {
	for _, e := range effects {
		if e.Kind == EffectNavigate {
			return true
		}
	}
	return false
}

// Greetings exposes the greeting variants.
func Greetings() []string {
	return append([]string(nil), greetings...)
}
