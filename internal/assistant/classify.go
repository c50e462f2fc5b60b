package assistant

import (
	"strings"

	"github.com/zhubert/nelson/internal/chat"
)

// urgencyTerms are checked from most to least urgent; the first level with
// a hit wins.
var urgencyTerms = []struct {
	level chat.Urgency
	terms []string
}{
	{chat.UrgencyEmergency, []string{
		"anaphylaxis", "cardiac arrest", "not breathing", "apnea", "unresponsive",
		"status epilepticus", "septic shock", "cyanosis", "resuscitation", "code blue",
	}},
	{chat.UrgencyHigh, []string{
		"seizure", "respiratory distress", "severe dehydration", "overdose", "poisoning",
		"ingestion", "sepsis", "meningitis", "head injury", "stridor",
	}},
	{chat.UrgencyMedium, []string{
		"fever", "vomiting", "diarrhea", "dehydration", "rash", "wheez", "croup",
		"otitis", "dose", "dosage",
	}},
}

// domainTerms map a display domain to the words that suggest it. Order
// breaks ties.
var domainTerms = []struct {
	domain string
	terms  []string
}{
	{"Emergency Medicine", []string{"anaphylaxis", "resuscitation", "trauma", "cardiac arrest", "shock", "code blue"}},
	{"Pharmacology", []string{"dose", "dosage", "mg/kg", "medication", "drug"}},
	{"Neonatology", []string{"newborn", "neonate", "neonatal", "preterm", "jaundice"}},
	{"Cardiology", []string{"heart", "murmur", "cardiac", "arrhythmia", "kawasaki"}},
	{"Pulmonology", []string{"asthma", "wheez", "bronchiolitis", "croup", "pneumonia", "stridor"}},
	{"Neurology", []string{"seizure", "epilep", "headache", "meningitis", "febrile convulsion"}},
	{"Infectious Disease", []string{"fever", "infection", "antibiotic", "otitis", "sepsis", "vaccine"}},
	{"Gastroenterology", []string{"vomit", "diarrhea", "dehydration", "abdominal", "reflux"}},
	{"Dermatology", []string{"rash", "eczema", "urticaria", "hives"}},
	{"Toxicology", []string{"poisoning", "ingestion", "overdose"}},
}

// Classify tags text with an urgency and the best matching medical domain.
// Text with no recognised terms yields the zero Metadata.
func Classify(text string) chat.Metadata {
	lower := strings.ToLower(text)
	var md chat.Metadata

	for _, u := range urgencyTerms {
		if containsAny(lower, u.terms) > 0 {
			md.Urgency = u.level
			break
		}
	}

	best := 0
	for _, d := range domainTerms {
		if n := containsAny(lower, d.terms); n > best {
			best = n
			md.MedicalDomain = d.domain
		}
	}
	return md
}

// ClassifyChat classifies a conversation from its user messages only.
func ClassifyChat(msgs []chat.Message) chat.Metadata {
	var b strings.Builder
	for _, m := range msgs {
		if m.Role == chat.RoleUser {
			b.WriteString(m.Content)
			b.WriteByte('\n')
		}
	}
	return Classify(b.String())
}

func containsAny(s string, terms []string) int {
	n := 0
	for _, t := range terms {
		if strings.Contains(s, t) {
			n++
		}
	}
	return n
}
