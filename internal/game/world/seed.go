package world

import (
	"fmt"
	"strings"
)

// Intensity labels for a world-flavor axis, picked by digit frequency.
const (
	IntensityNone     = "Inexistente"
	IntensityLow      = "Baixo/Escasso"
	IntensityModerate = "Moderado"
	IntensityExtreme  = "Extremo/Abundante"
)

// World-size interpretation of the digit 9: no nines give the base size,
// otherwise each nine (capped) adds a SizeStep.
const (
	BaseWorldSize = 20000 // km²
	SizeStep      = 60000 // km² per counted nine
	MaxSizeCount  = 3
)

// axes maps digits 1..8 to the world-flavor axis each controls.
var axes = []struct {
	digit byte
	label string
}{
	{'1', "Relevo Baixo"},
	{'2', "Recursos Naturais"},
	{'3', "Nível de Magia"},
	{'4', "Quantidade de Água"},
	{'5', "Relevo Alto"},
	{'6', "Diversidade de Biomas"},
	{'7', "Cadeias Montanhosas"},
	{'8', "Profundidade dos Mares"},
}

func intensity(count int) string {
	switch {
	case count == 0:
		return IntensityNone
	case count <= 2:
		return IntensityLow
	case count <= 4:
		return IntensityModerate
	default:
		return IntensityExtreme
	}
}

// InterpretSeed reduces a free-text seed to its digits and renders the
// qualitative world description injected into the narrator's initial
// context. The text has no mechanical effect on gameplay.
func InterpretSeed(seed string) string {
	var counts [10]int
	for _, r := range seed {
		if r >= '0' && r <= '9' {
			counts[r-'0']++
		}
	}

	sizeCount := counts[9]
	if sizeCount > MaxSizeCount {
		sizeCount = MaxSizeCount
	}
	size := BaseWorldSize
	if sizeCount > 0 {
		size = sizeCount * SizeStep
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Tamanho do Mundo: %d km².\n", size)
	for _, axis := range axes {
		fmt.Fprintf(&b, "%s: %s.\n", axis.label, intensity(counts[axis.digit-'0']))
	}
	return b.String()
}
