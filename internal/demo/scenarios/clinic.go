// Package scenarios contains built-in demo data sets for Nelson.
package scenarios

import (
	"time"

	"github.com/zhubert/nelson/internal/demo"
)

const day = 24 * time.Hour

// Clinic is a week of a general pediatrician's questions, spread across
// recency buckets and urgency levels.
var Clinic = &demo.Scenario{
	Name:          "clinic",
	Description:   "A pediatrician's recent chats, signed in",
	Account:       demo.DefaultAccount,
	StartSignedIn: true,
	Chats: []demo.ChatSetup{
		{
			Age: 20 * time.Minute,
			Exchanges: []demo.Exchange{
				demo.Ask(
					"Febrile seizure in a 2 year old, lasted 3 minutes, now alert. Workup?",
					"A simple febrile seizure in a well-appearing child needs no routine labs, imaging or EEG. "+
						"Look for the fever source and counsel the family on recurrence risk.\n\n"+
						"[1] Subcommittee on Febrile Seizures. Pediatrics. 2011;127(2):389-394.",
				),
			},
		},
		{
			Age: 2 * day,
			Exchanges: []demo.Exchange{
				demo.Ask(
					"Amoxicillin dose for acute otitis media in a 14 kg child",
					"High-dose amoxicillin is 80-90 mg/kg/day divided twice daily: about 600 mg per dose for 14 kg. "+
						"Treat for 10 days under age 2, 7 days at ages 2-5.",
				),
				demo.Ask(
					"And if there was amoxicillin in the last 30 days?",
					"Use amoxicillin-clavulanate at 90 mg/kg/day of the amoxicillin component, divided twice daily.",
				),
			},
		},
		{
			Title: "Bronchiolitis admission criteria",
			Age:   5 * day,
			Exchanges: []demo.Exchange{
				demo.Ask(
					"When should an infant with bronchiolitis be admitted?",
					"Admit for persistent SpO2 below 90%, poor feeding with dehydration, apnea, or marked "+
						"respiratory distress. Consider a lower threshold for infants under 12 weeks.",
				),
			},
		},
		{
			Age: 20 * day,
			Exchanges: []demo.Exchange{
				demo.Ask(
					"Iron supplementation for a breastfed 4 month old?",
					"Exclusively breastfed term infants should start 1 mg/kg/day of oral iron at 4 months "+
						"until iron-containing foods are established.",
				),
			},
		},
	},
}

// All returns all built-in scenarios.
func All() []*demo.Scenario {
	return []*demo.Scenario{
		Clinic,
	}
}

// Get returns a scenario by name, or nil if not found.
func Get(name string) *demo.Scenario {
	for _, s := range All() {
		if s.Name == name {
			return s
		}
	}
	return nil
}
