package assistant

import "github.com/johncabili/portfolio/backend/internal/model/chat"

var initialReplies = []chat.QuickReply{
	{Text: "Looking for John's resume", Response: "You can view John's detailed resume on the Resume page. Would you like me to take you there?"},
	{Text: "Just saying hello!", Response: "Hello there! Nice to meet you. I'm JAC, John's digital assistant. He's a Computer Science graduate with full-stack development expertise and AI/ML integration experience. What would you like to know?"},
	{Text: "Interested in services", Response: "John specializes in: \n\n• Full-stack development (React, Kotlin, Python)\n• AI & Machine Learning integration\n• Secure software development\n• Mobile app development (Android)\n• Cloud & API integration\n\nWhich service are you interested in?"},
	{Text: "We'd like to hire John", Response: "Thank you for your interest! John is currently open to new opportunities. As a Summa Cum Laude Computer Science graduate with professional AI/ML experience, he's ready to contribute to your team. Would you like me to help you contact him?"},
}

const composeResponse = "I'll open your email with a blank template so you can compose your own message..."

var contextReplies = map[chat.Topic][]chat.QuickReply{
	chat.TopicResume: {
		{Text: "Yes, show me the resume", Response: "Opening John's resume page for you now..."},
		{Text: "Tell me about his skills first", Response: "John is a Computer Science graduate (Summa Cum Laude) specializing in full-stack development, AI/ML integration, and secure software practices. He's proficient in Java, Kotlin, Python, React, and has professional experience at OTis Philippines Inc."},
		{Text: "I'd like to contact him", Response: "I'll open your email client to contact John directly. Would you like to discuss a project or opportunity?"},
	},
	chat.TopicHire: {
		{Text: "Send an email about a job", Response: "Opening your email client to contact John about a job opportunity..."},
		{Text: "Discuss a project", Response: "Opening your email client to discuss a potential project with John..."},
		{Text: "Tell me more about his work", Response: "John is a Computer Science graduate from Adamson University (Summa Cum Laude) with hands-on experience in full-stack development, AI/ML integration, and secure software practices. He's worked as a Software Development and AI Intern at OTis Philippines Inc. Would you like to see specific projects?"},
		{Text: "Compose email", Response: composeResponse},
	},
	chat.TopicServices: {
		{Text: "Need a website built", Response: "John has extensive experience building full-stack web applications with modern technologies. He integrates AI/ML solutions and applies secure software practices. Would you like to discuss your project with him?"},
		{Text: "AI/ML integration needed", Response: "John has professional experience integrating AI/ML models and developing intelligent solutions. He's worked on CNN-based image classification and ML pipelines. Would you like to contact him about your AI project?"},
		{Text: "Mobile app development", Response: "John develops Android applications using Kotlin and Jetpack Compose, with backend integration and database workflows. Would you like to email him about your mobile app idea?"},
		{Text: "Secure software development", Response: "John has certifications in cybersecurity and secure software development practices. He's experienced with RBAC implementation and secure API integration. Would you like to discuss your security requirements?"},
		{Text: "Compose email", Response: composeResponse},
	},
	chat.TopicContact: {
		{Text: "Job opportunity", Response: "Opening your email client to contact John about a job opportunity..."},
		{Text: "Project collaboration", Response: "Opening your email client to discuss a potential project with John..."},
		{Text: "General inquiry", Response: "Opening your email client for a general inquiry to John..."},
		{Text: "Compose email", Response: composeResponse},
	},
	chat.TopicHello: {
		{Text: "Tell me about John", Response: "John is a Computer Science graduate from Adamson University, achieving Summa Cum Laude honors as the Top 2 Performing Computer Science Student. He specializes in full-stack development, AI/ML integration, and secure software practices."},
		{Text: "What projects has he worked on?", Response: "John has worked on projects like Mangosoft (CNN-based mango classification with price estimation) and OSCA Management System. He also has professional experience as a Software Development and AI Intern at OTis Philippines Inc. Would you like to see specific examples?"},
		{Text: "What services does he offer?", Response: "John offers full-stack development, AI/ML integration, secure software development, mobile app development, and cloud & API integration. Which are you interested in?"},
	},
}

// InitialQuickReplies returns the suggestions shown before any conversation.
func InitialQuickReplies() []chat.QuickReply {
	return append([]chat.QuickReply(nil), initialReplies...)
}

// ContextReplies returns the suggestion set for topic. TopicInitial maps to
// the initial set and TopicNone to an empty list.
func ContextReplies(topic chat.Topic) []chat.QuickReply {
	if topic == chat.TopicInitial {
		return InitialQuickReplies()
	}
	return append([]chat.QuickReply{}, contextReplies[topic]...)
}

// Topics lists every topic that has a contextual set.
func Topics() []chat.Topic {
	return []chat.Topic{chat.TopicInitial, chat.TopicHello, chat.TopicHire, chat.TopicServices, chat.TopicContact, chat.TopicResume}
}
