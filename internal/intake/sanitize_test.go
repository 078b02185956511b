package intake

import (
	"net/url"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestSanitize(t *testing.T) {
	in := Submission{
		"voornaam":   "  <b>Noah</b> ",
		"achternaam": `O'Brien & "Zoon"`,
		"importance": float64(7),
		"extra":      nil,
	}

	out := Sanitize(in)
	require.Equal(t, "&lt;b&gt;Noah&lt;/b&gt;", out["voornaam"])
	require.Equal(t, "O&#039;Brien &amp; &quot;Zoon&quot;", out["achternaam"])
	require.Equal(t, float64(7), out["importance"])
	require.Contains(t, out, "extra")
	require.Nil(t, out["extra"])

	require.Equal(t, "  <b>Noah</b> ", in["voornaam"], "input must not be modified")
}

func TestUnescapeReversesEscape(t *testing.T) {
	for _, s := range []string{`a & b`, `<script>alert("x")</script>`, `it's`, `&amp; literal`} {
		require.Equal(t, s, Unescape(Escape(s)))
	}
}

func TestToRecord(t *testing.T) {
	rec := ToRecord(Sanitize(validSubmission()))

	require.Equal(t, "Noah", rec.Voornaam)
	require.Equal(t, "Peeters", rec.Achternaam)
	require.Equal(t, "noah@example.com", rec.Email)
	require.Equal(t, "+32 470 12-34-56", rec.Telefoon)
	require.Equal(t, 29, rec.Leeftijd)
	require.Equal(t, "182", rec.Lengte)
	require.Equal(t, "80", rec.Gewicht)
	require.Equal(t, "3x per week", rec.TrainFrequentie)
	require.Equal(t, "1x per week", rec.Uiteten)
	require.Equal(t, "Intuitief", rec.VoedingAanpak)
	require.Equal(t, 8, rec.Importance)
	require.Equal(t, "ja", rec.Actie)
	require.Equal(t, "ja", rec.StartNu)
}

func TestToRecordNumericText(t *testing.T) {
	s := validSubmission()
	s["lengte"] = float64(182.5)
	s["gewicht"] = float64(80)
	delete(s, "telefoon")

	rec := ToRecord(s)
	require.Equal(t, "182.5", rec.Lengte)
	require.Equal(t, "80", rec.Gewicht)
	require.Equal(t, "", rec.Telefoon)
}

func TestSchedulingURL(t *testing.T) {
	rec := ToRecord(Sanitize(Submission{
		"voornaam":   "Noah",
		"achternaam": "O'Brien",
		"email":      "noah@example.com",
		"telefoon":   "+32 470",
	}))

	got := SchedulingURL(" https://calendly.com/its-noahcpt/1-1-intake", rec)
	u, err := url.Parse(got)
	require.NoError(t, err)
	require.Equal(t, "calendly.com", u.Host)
	require.Equal(t, "/its-noahcpt/1-1-intake", u.Path)

	q := u.Query()
	require.Equal(t, "Noah O'Brien", q.Get("name"))
	require.Equal(t, "noah@example.com", q.Get("email"))
	require.Equal(t, "+32 470", q.Get("phone"))
}

func TestSchedulingURLKeepsExistingQuery(t *testing.T) {
	rec := ToRecord(validSubmission())
	u, err := url.Parse(SchedulingURL("https://book.example.com/intake?utm_source=form", rec))
	require.NoError(t, err)
	require.Equal(t, "form", u.Query().Get("utm_source"))
	require.Equal(t, "Noah Peeters", u.Query().Get("name"))
}

func TestSchedulingURLEmptyPhone(t *testing.T) {
	rec := ToRecord(validSubmission())
	rec.Telefoon = ""
	u, err := url.Parse(SchedulingURL("https://book.example.com/intake", rec))
	require.NoError(t, err)
	require.True(t, u.Query().Has("phone"))
	require.Equal(t, "", u.Query().Get("phone"))
}
