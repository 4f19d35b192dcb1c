package assistant

import "github.com/ministock/backend/internal/application/textmatch"

var (
	greeting = textmatch.MustCompile(`^(hola|hey|buenas|buenos|buen|que tal|saludos)`)
	thanks   = textmatch.MustCompile(`(gracias|thank|thx|excelente|perfecto|genial)`)
	farewell = textmatch.MustCompile(`(adios|chao|hasta luego|nos vemos|bye)`)
)

var greetingLines = []string{
	"¡Hola! 👋 ¿En qué te ayudo hoy con tu inventario?",
	"¡Hey! 😊 Listo para ayudarte. ¿Qué necesitas saber?",
	"¡Buenas! 📦 ¿Qué información de tu negocio necesitas?",
}

var thanksLines = []string{
	"¡De nada! 💙 Aquí estoy cuando me necesites.",
	"¡Un placer! 😊 ¿Algo más?",
	"¡Para eso estoy! 📦 Si necesitas algo más, solo pregunta.",
}

const farewellText = "¡Hasta pronto! 👋 Que tengas un excelente día gestionando tu inventario."

func socialRules() []Rule {
	return []Rule{
		{
			Name:    "social.greeting",
			Match:   func(t *Turn) bool { return t.Has(greeting) },
			Respond: always(func(t *Turn) Reply { return say(t.pick(greetingLines)) }),
		},
		{
			Name:    "social.thanks",
			Match:   func(t *Turn) bool { return t.Has(thanks) },
			Respond: always(func(t *Turn) Reply { return say(t.pick(thanksLines)) }),
		},
		{
			Name:    "social.farewell",
			Match:   func(t *Turn) bool { return t.Has(farewell) },
			Respond: always(func(*Turn) Reply { return say(farewellText) }),
		},
	}
}
