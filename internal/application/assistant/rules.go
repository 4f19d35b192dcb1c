package assistant

import (
	"fmt"

	"github.com/ministock/backend/internal/application/knowledge"
)

// Version is reported in the welcome message.
const Version = "2.1"

// DefaultRules returns the intent table in precedence order. The fallback
// rule is last and always answers.
func DefaultRules() []Rule {
	rules := []Rule{
		contextualRule(),
		knowledgeRule("glossary", knowledge.Glossary()),
		knowledgeRule("advice", knowledge.Advice()),
		crudRule("crud.create", createVerb, createGuides, createMenuText),
		crudRule("crud.edit", editVerb, editGuides, editMenuText),
		crudRule("crud.delete", deleteVerb, deleteGuides, deleteMenuText),
		listRule(),
		chartRule(),
	}
	rules = append(rules, socialRules()...)
	rules = append(rules, metricRules()...)
	return append(rules, fallbackRule())
}

// NewDefaultRouter builds a router over DefaultRules.
func NewDefaultRouter() *Router {
	return NewRouter(DefaultRules()...)
}

func fallbackRule() Rule {
	return Rule{
		Name: "fallback",
		Respond: always(func(t *Turn) Reply {
			if t.View.IsEmpty() {
				r := say(onboardingText)
				r.Intent = "onboarding"
				return r
			}
			return say(fmt.Sprintf(capabilitiesText, t.Raw))
		}),
	}
}

const onboardingText = `🎯 **Primeros pasos:**

Parece que estás empezando. Te recomiendo:

1. Crear categorías para organizar tus productos
2. Agregar productos con precio y stock
3. Registrar tus clientes y proveedores
4. Empezar a registrar ventas y compras

¡Estoy aquí para acompañarte en el proceso! 💙`

const capabilitiesText = `🤔 Entiendo que preguntas sobre "%s".

Puedo ayudarte con:

• Productos, stock y precios
• Análisis de ventas y compras
• Estadísticas y tendencias
• Información de clientes y proveedores
• Recomendaciones personalizadas

¿Podrías ser más específico? Por ejemplo:
"¿Cuánto tengo en ventas?"
"Muéstrame productos con bajo stock"
"¿Cuál es mi mejor cliente?"`

// WelcomeText is the first message of every session.
func WelcomeText() string {
	return fmt.Sprintf(`¡Hola! Soy Stocky 📦 v%s, tu asistente de inventario y asesor de negocios.

Puedo ayudarte con:
• 📊 **Gráficas y estadísticas** de tu negocio (pregunta: "muestra gráficas")
• 📦 Información detallada de productos
• 💰 Análisis de ventas y compras
• 👥 Datos de clientes y proveedores
• 💡 Recomendaciones personalizadas
• 📈 Tendencias
• ✍️ Cómo crear, editar y eliminar registros
• 📚 Conceptos de negocio y ventas
• 🎯 Consejos para mejorar tu negocio

¿Qué te gustaría hacer?`, Version)
}

const emptyInputText = "✍️ Escribe una pregunta sobre tu inventario, por ejemplo \"¿qué productos tienen bajo stock?\"."
