package intake

import (
	"net/url"
	"strings"

	"github.com/noahform/intake/internal/model"
)

// ToRecord maps a validated, sanitized submission onto the stored record.
// Unknown keys are ignored.
func ToRecord(s Submission) *model.Intake {
	leeftijd, _ := toInt(s["leeftijd"])
	importance, _ := toInt(s["importance"])

	return &model.Intake{
		Voornaam:        stringify(s["voornaam"]),
		Achternaam:      stringify(s["achternaam"]),
		Email:           stringify(s["email"]),
		Telefoon:        stringify(s["telefoon"]),
		Leeftijd:        leeftijd,
		Lengte:          stringify(s["lengte"]),
		Gewicht:         stringify(s["gewicht"]),
		Beroep:          stringify(s["beroep"]),
		Blessures:       stringify(s["blessures"]),
		Struggle:        stringify(s["struggle"]),
		TrainFrequentie: stringify(s["trainFrequentie"]),
		Uiteten:         stringify(s["uiteten"]),
		VoedingAanpak:   stringify(s["voedingAanpak"]),
		Doelen:          stringify(s["doelen"]),
		Importance:      importance,
		Actie:           stringify(s["actie"]),
		StartNu:         stringify(s["startNu"]),
	}
}

// SchedulingURL appends the client's name, email and phone to the booking
// page so the form there is prefilled.
func SchedulingURL(base string, rec *model.Intake) string {
	base = strings.TrimSpace(base)

	u, err := url.Parse(base)
	if err != nil {
		return base
	}
	q := u.Query()
	q.Set("name", Unescape(rec.Voornaam+" "+rec.Achternaam))
	q.Set("email", Unescape(rec.Email))
	q.Set("phone", Unescape(rec.Telefoon))
	u.RawQuery = q.Encode()
	return u.String()
}
