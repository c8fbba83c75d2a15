package responder

import (
	"math/rand/v2"
	"testing"
	"time"

	"github.com/johncabili/portfolio/backend/internal/analysis/intent"
	"github.com/johncabili/portfolio/backend/internal/model/chat"
	"github.com/johncabili/portfolio/backend/internal/model/email"
)

func newTestResponder(seed uint64) *Responder {
	return New(Options{
		OwnerEmail: "owner@example.com",
		Rand:       rand.New(rand.NewPCG(seed, seed+1)),
	})
}

func TestRespondWebsiteDraft(t *testing.T) {
	r := newTestResponder(1)
	reply := r.Respond("I need a website built")

	if reply.Intent != intent.EmailWebsite {
		t.Fatalf("expected website intent, got %s", reply.Intent)
	}
	if reply.Text != "Opening your email client to discuss full-stack web development with John..." {
		t.Fatalf("unexpected reply text: %q", reply.Text)
	}
	if reply.Retopic {
		t.Fatal("email drafts must keep the current quick replies")
	}
	if len(reply.Effects) != 1 {
		t.Fatalf("expected one effect, got %d", len(reply.Effects))
	}

	effect := reply.Effects[0]
	tmpl, _ := email.Lookup(email.KindWebsite)
	if effect.Kind != EffectEmail || effect.Template != email.KindWebsite {
		t.Fatalf("unexpected effect: %+v", effect)
	}
	if effect.URI != email.Mailto("owner@example.com", tmpl) {
		t.Fatalf("unexpected mailto uri: %s", effect.URI)
	}
	if effect.Delay != time.Second {
		t.Fatalf("expected 1s delay, got %s", effect.Delay)
	}
}

func TestRespondDefaultFallback(t *testing.T) {
	r := newTestResponder(2)
	for _, input := range []string{"banana", "what can you do", "qwerty"} {
		reply := r.Respond(input)
		if reply.Text != DefaultReply {
			t.Fatalf("Respond(%q) = %q, want default", input, reply.Text)
		}
		if reply.Intent != intent.Unknown || reply.Retopic || len(reply.Effects) != 0 {
			t.Fatalf("fallback must carry no topic or effects: %+v", reply)
		}
	}
}

func TestRespondGreetingIsUniform(t *testing.T) {
	r := newTestResponder(42)
	counts := make(map[string]int)
	const trials = 3000
	for i := 0; i < trials; i++ {
		reply := r.Respond("hello")
		counts[reply.Text]++
		if reply.Topic != chat.TopicHello || !reply.Retopic {
			t.Fatalf("greeting should surface hello replies: %+v", reply)
		}
	}

	variants := Greetings()
	if len(counts) != len(variants) {
		t.Fatalf("expected %d distinct greetings, got %d", len(variants), len(counts))
	}
	for _, v := range variants {
		if counts[v] < 800 || counts[v] > 1200 {
			t.Fatalf("greeting %q drawn %d times out of %d", v, counts[v], trials)
		}
	}
}

func TestRespondSeededIsDeterministic(t *testing.T) {
	a := newTestResponder(7)
	b := newTestResponder(7)
	for i := 0; i < 10; i++ {
		if a.Respond("hey").Text != b.Respond("hey").Text {
			t.Fatal("same seed should produce the same greeting sequence")
		}
	}
}

func TestRespondTopics(t *testing.T) {
	r := newTestResponder(3)
	cases := map[string]chat.Topic{
		"what are your skills":       chat.TopicHire,
		"how can I reach you":        chat.TopicContact,
		"show me your portfolio":     chat.TopicServices,
		"thanks a lot":               chat.TopicInitial,
		"job resume":                 chat.TopicHire,
		"what services do you offer": chat.TopicServices,
	}
	for input, want := range cases {
		reply := r.Respond(input)
		if !reply.Retopic || reply.Topic != want {
			t.Fatalf("Respond(%q) topic = %q (retopic=%v), want %q", input, reply.Topic, reply.Retopic, want)
		}
	}
}

func TestRespondResumeNavigatesOnce(t *testing.T) {
	r := newTestResponder(4)
	reply := r.Respond("yes show resume")
	if reply.Intent != intent.Resume {
		t.Fatalf("expected resume intent, got %s", reply.Intent)
	}
	if len(reply.Effects) != 1 {
		t.Fatalf("expected a single navigation, got %+v", reply.Effects)
	}
	if e := reply.Effects[0]; e.Kind != EffectNavigate || e.Path != "/resume" || e.Delay != time.Second {
		t.Fatalf("unexpected navigation effect: %+v", e)
	}
}

func TestRespondResumeFollowUp(t *testing.T) {
	r := newTestResponder(5)
	reply := r.Respond("show me john's resume")
	if reply.Intent != intent.About {
		t.Fatalf("expected about intent, got %s", reply.Intent)
	}
	if len(reply.Effects) != 1 {
		t.Fatalf("expected follow-up navigation, got %+v", reply.Effects)
	}
	if e := reply.Effects[0]; e.Kind != EffectNavigate || e.Delay != 1500*time.Millisecond {
		t.Fatalf("unexpected follow-up effect: %+v", e)
	}
}

func TestQuickActionJobDraft(t *testing.T) {
	r := newTestResponder(6)
	effect, ok := r.QuickAction("Send an email about a job")
	if !ok {
		t.Fatal("expected direct action")
	}
	tmpl, _ := email.Lookup(email.KindJob)
	want := "mailto:owner@example.com?subject=" + email.EncodeComponent(tmpl.Subject) + "&body=" + email.EncodeComponent(tmpl.Body)
	if effect.URI != want {
		t.Fatalf("unexpected uri:\n got %s\nwant %s", effect.URI, want)
	}
	if effect.Delay != 0 {
		t.Fatalf("direct drafts open immediately, got %s", effect.Delay)
	}
}

func TestQuickActionResumeAndPassThrough(t *testing.T) {
	r := newTestResponder(8)
	effect, ok := r.QuickAction("Yes, show me the resume")
	if !ok || effect.Kind != EffectNavigate || effect.Delay != time.Second {
		t.Fatalf("unexpected resume action: %+v ok=%v", effect, ok)
	}
	if _, ok := r.QuickAction("Tell me about John"); ok {
		t.Fatal("informational replies must be handled as text")
	}
}

func TestDraftRejectsUnknownKind(t *testing.T) {
	r := newTestResponder(9)
	if _, ok := r.Draft(email.Kind("fax")); ok {
		t.Fatal("unknown template kind accepted")
	}
	if e, ok := r.Draft(email.KindBlank); !ok || e.URI != "mailto:owner@example.com?subject=&body=" {
		t.Fatalf("unexpected blank draft: %+v", e)
	}
}
