package model

import "time"

// Intake is one submitted intake questionnaire (table inschrijvingen).
type Intake struct {
	ID              int64     `json:"id"`
	Voornaam        string    `json:"voornaam"`
	Achternaam      string    `json:"achternaam"`
	Email           string    `json:"email"`
	Telefoon        string    `json:"telefoon"`
	Leeftijd        int       `json:"leeftijd"`
	Lengte          string    `json:"lengte"`
	Gewicht         string    `json:"gewicht"`
	Beroep          string    `json:"beroep"`
	Blessures       string    `json:"blessures"`
	Struggle        string    `json:"struggle"`
	TrainFrequentie string    `json:"trainFrequentie"`
	Uiteten         string    `json:"uiteten"`
	VoedingAanpak   string    `json:"voedingAanpak"`
	Doelen          string    `json:"doelen"`
	Importance      int       `json:"importance"`
	Actie           string    `json:"actie"`
	StartNu         string    `json:"startNu"`
	CreatedAt       time.Time `json:"created_at"`
}

func (i *Intake) FullName() string {
	return i.Voornaam + " " + i.Achternaam
}
