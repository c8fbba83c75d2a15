package email

import (
	"fmt"
	"net/url"
	"strings"
)

// Kind identifies a pre-filled email draft.
type Kind string

const (
	KindJob      Kind = "job"
	KindProject  Kind = "project"
	KindWebsite  Kind = "website"
	KindAI       Kind = "ai"
	KindMobile   Kind = "mobile"
	KindSecurity Kind = "security"
	KindGeneral  Kind = "general"
	KindBlank    Kind = "blank"
)

// Kinds lists every template key in a stable order.
func Kinds() []Kind {
	return []Kind{KindJob, KindProject, KindWebsite, KindAI, KindMobile, KindSecurity, KindGeneral, KindBlank}
}

// Template is the subject and body used to pre-fill a draft.
type Template struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}

var templates = map[Kind]Template{
	KindJob: {
		Subject: "Job Opportunity for John Andrei Cabili - Full-stack Developer",
		Body:    "Hi John,\n\nI'm reaching out about a job opportunity that I believe matches your skills and experience in full-stack development, AI/ML integration, and secure software practices.\n\n[Please include details about the position, company, and requirements]\n\nGiven your Computer Science background and professional experience at OTis Philippines Inc., I believe you would be a great fit for our team.\n\nLooking forward to discussing this opportunity with you.\n\nBest regards,",
	},
	KindProject: {
		Subject: "Project Collaboration with John Andrei Cabili",
		Body:    "Hi John,\n\nI'm interested in collaborating with you on a project that could benefit from your full-stack development expertise and AI/ML integration capabilities.\n\n[Please include project details, timeline, and objectives]\n\nGiven your experience with CNN-based applications and secure software development, I believe you would bring valuable expertise to this project.\n\nWould love to discuss this further.\n\nBest regards,",
	},
	KindWebsite: {
		Subject: "Full-stack Web Development Inquiry",
		Body:    "Hi John,\n\nI'm interested in your full-stack web development services.\n\n[Please include details about your website needs, timeline, and specific requirements]\n\nGiven your experience with React, backend integration, and secure software practices, I believe you would be perfect for this project.\n\nLooking forward to your response.\n\nBest regards,",
	},
	KindAI: {
		Subject: "AI/ML Integration Services Inquiry",
		Body:    "Hi John,\n\nI'm interested in your AI/ML integration services.\n\n[Please include details about your AI/ML needs, data requirements, and specific objectives]\n\nGiven your experience with CNN-based image classification, ML pipelines, and professional AI development at OTis Philippines Inc., I believe you would be an excellent fit for this project.\n\nLooking forward to your response.\n\nBest regards,",
	},
	KindMobile: {
		Subject: "Android App Development Inquiry",
		Body:    "Hi John,\n\nI'm interested in your Android app development services using Kotlin and Jetpack Compose.\n\n[Please include details about your app concept, features, and specific requirements]\n\nGiven your experience with backend integration and database workflows, I believe you would deliver a comprehensive mobile solution.\n\nLooking forward to your response.\n\nBest regards,",
	},
	KindSecurity: {
		Subject: "Secure Software Development Inquiry",
		Body:    "Hi John,\n\nI'm interested in your secure software development services.\n\n[Please include details about your security requirements, compliance needs, and specific objectives]\n\nGiven your certifications in cybersecurity and experience with RBAC implementation, I believe you would ensure our software meets the highest security standards.\n\nLooking forward to your response.\n\nBest regards,",
	},
	KindGeneral: {
		Subject: "Inquiry for John Andrei Cabili",
		Body:    "Hi John,\n\nI'm reaching out regarding:\n\n[Your message here]\n\nLooking forward to your response.\n\nBest regards,",
	},
	KindBlank: {},
}

// Lookup returns the template registered for kind.
func Lookup(kind Kind) (Template, bool) {
	tmpl, ok := templates[kind]
	return tmpl, ok
}

// Mailto builds the draft URI for address using tmpl.
func Mailto(address string, tmpl Template) string {
	return fmt.Sprintf("mailto:%s?subject=%s&body=%s", address, EncodeComponent(tmpl.Subject), EncodeComponent(tmpl.Body))
}

// componentFixups restores the characters encodeURIComponent leaves literal.
var componentFixups = strings.NewReplacer(
	"+", "%20",
	"%21", "!",
	"%27", "'",
	"%28", "(",
	"%29", ")",
	"%2A", "*",
)

// EncodeComponent percent-encodes s like a browser's encodeURIComponent:
// spaces become %20 and newlines %0A.
func EncodeComponent(s string) string {
	return componentFixups.Replace(url.QueryEscape(s))
}
