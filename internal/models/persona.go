package models

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

// Persona tags the tone or audience a summary was written for.
type Persona string

const (
	PersonaGeneral   Persona = "general"
	PersonaBusiness  Persona = "business"
	PersonaAcademic  Persona = "academic"
	PersonaTechnical Persona = "technical"
	PersonaLegal     Persona = "legal"
	PersonaStudent   Persona = "student"
	PersonaCreative  Persona = "creative"
)

var personaNames = map[Persona]string{
	PersonaGeneral:   "General",
	PersonaBusiness:  "Business",
	PersonaAcademic:  "Academic",
	PersonaTechnical: "Technical",
	PersonaLegal:     "Legal",
	PersonaStudent:   "Student",
	PersonaCreative:  "Creative",
}

// ParsePersona normalizes user input. Empty input maps to PersonaGeneral;
// unknown values are kept so their label still renders.
func ParsePersona(s string) Persona {
	s = strings.ToLower(strings.TrimSpace(s))
	if s == "" {
		return PersonaGeneral
	}
	return Persona(s)
}

func (p Persona) DisplayName() string {
	if name, ok := personaNames[p]; ok {
		return name
	}
	if p == "" {
		return personaNames[PersonaGeneral]
	}
	raw := strings.ReplaceAll(string(p), "_", " ")
	return cases.Title(language.English).String(raw)
}
