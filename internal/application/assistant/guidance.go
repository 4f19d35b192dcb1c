package assistant

import (
	"github.com/ministock/backend/internal/application/knowledge"
	"github.com/ministock/backend/internal/application/textmatch"
)

func knowledgeRule(name string, table *knowledge.Table) Rule {
	return Rule{
		Name:  name,
		Match: func(t *Turn) bool { return table.Triggered(t.Folded) },
		Respond: func(t *Turn) (Reply, bool) {
			e := table.Lookup(t.Folded)
			if e == nil {
				return Reply{}, false
			}
			r := say(e.Text)
			r.Intent = e.Topic
			return r, true
		},
	}
}

var (
	createVerb = textmatch.Words("crear", "agregar", "anadir", "nuevo", "nueva", "registrar", "agrega", "crea", "anade", "registra")
	editVerb   = textmatch.Words("editar", "modificar", "actualizar", "cambiar", "cambio", "modifica", "actualiza")
	deleteVerb = textmatch.Words("eliminar", "borrar", "quitar", "remover", "delete", "elimina", "borra", "quita", "remueve")
	listVerb   = textmatch.Words("listar", "mostrar", "ver", "lista", "muestra", "muestrame", "dime")
	everything = textmatch.MustCompile(`(\btodos?\b|\btodas\b|que tengo)`)

	nounProduct  = textmatch.MustCompile(`\b(producto|articulo|item)`)
	nounCategory = textmatch.MustCompile(`\b(categoria|clasificacion)`)
	nounClient   = textmatch.MustCompile(`\b(cliente|comprador)`)
	nounProvider = textmatch.MustCompile(`\b(proveedor|supplier)`)
	nounSale     = textmatch.MustCompile(`\b(venta|ingreso|vender)`)
	nounPurchase = textmatch.MustCompile(`\b(compra|egreso|gasto|adquisicion)`)
)

type guide struct {
	noun textmatch.Matcher
	text string
}

// crudRule answers "how do I create/edit/delete X" with directions to the
// matching screen, or a menu of nouns when X is not recognised.
func crudRule(name string, verb textmatch.Matcher, guides []guide, menu string) Rule {
	return Rule{
		Name:  name,
		Match: func(t *Turn) bool { return t.Has(verb) },
		Respond: always(func(t *Turn) Reply {
			for _, g := range guides {
				if t.Has(g.noun) {
					return say(g.text)
				}
			}
			return say(menu)
		}),
	}
}

func listRule() Rule {
	return Rule{
		Name:    "crud.list",
		Match:   func(t *Turn) bool { return t.Has(listVerb) && t.Has(everything) },
		Respond: always(func(*Turn) Reply { return say(listMenuText) }),
	}
}

var createGuides = []guide{
	{nounProduct, `✍️ **Crear Nuevo Producto**

Ve a la sección "Productos" y pulsa "Agregar Producto".

Te pedirá:
• Nombre
• Descripción
• Precio
• Cantidad inicial
• Categoría

¿Te ayudo con algo más?`},
	{nounCategory, `✍️ **Crear Nueva Categoría**

En la sección "Productos" pulsa "Gestionar Categorías".

Te pedirá:
• Nombre de la categoría
• Descripción

Las categorías agrupan tus productos, por ejemplo Electrónica, Ropa o Alimentos.

¿Quieres saber algo más?`},
	{nounClient, `✍️ **Crear Nuevo Cliente**

Ve a la sección "Clientes" y pulsa "Agregar Cliente".

Te pedirá:
• Nombre
• Teléfono
• Email

Con tus clientes registrados puedo darte estadísticas de ventas por cliente.

¿Te ayudo con algo más?`},
	{nounProvider, `✍️ **Crear Nuevo Proveedor**

Ve a la sección "Proveedores" y pulsa "Agregar Proveedor".

Te pedirá:
• Nombre
• Contacto
• Email

Los proveedores se usan al registrar compras.

¿Quieres saber algo más?`},
	{nounSale, `✍️ **Registrar Nueva Venta**

Ve a la sección "Ingresos/Ventas" y pulsa "Registrar Venta".

Ahí puedes:
• Elegir uno o varios productos
• Seleccionar el cliente
• Indicar cantidades

El total se calcula solo y el stock se descuenta automáticamente.

💡 **Tip:** cada venta reduce tu stock.

¿Te ayudo con algo más?`},
	{nounPurchase, `✍️ **Registrar Nueva Compra**

Ve a la sección "Egresos/Compras" y pulsa "Registrar Compra".

Ahí puedes:
• Elegir uno o varios productos
• Seleccionar el proveedor
• Indicar cantidades

El total se calcula solo y el stock aumenta automáticamente.

💡 **Tip:** cada compra suma a tu stock.

¿Quieres saber algo más?`},
}

const createMenuText = `✍️ **Crear/Agregar Registros**

¿Qué quieres crear?

📦 **Productos:** "Crear producto"
📁 **Categorías:** "Crear categoría"
👥 **Clientes:** "Crear cliente"
🏭 **Proveedores:** "Crear proveedor"
💰 **Ventas:** "Crear venta"
🛒 **Compras:** "Crear compra"

Dime cuál y te guío paso a paso.`

var editGuides = []guide{
	{nounProduct, `✏️ **Editar Producto**

1. Abre la sección "Productos"
2. Busca el producto
3. Pulsa el botón de editar (lápiz)
4. Cambia los campos que necesites
5. Guarda

Puedes cambiar nombre, descripción, precio, cantidad y categoría.

¿Te ayudo con algo más?`},
	{nounClient, `✏️ **Editar Cliente**

1. Abre la sección "Clientes"
2. Busca el cliente
3. Pulsa el botón de editar (lápiz)
4. Cambia los campos necesarios
5. Guarda

Puedes actualizar nombre, teléfono y email.

¿Quieres saber algo más?`},
	{nounProvider, `✏️ **Editar Proveedor**

1. Abre la sección "Proveedores"
2. Busca el proveedor
3. Pulsa el botón de editar (lápiz)
4. Cambia los campos necesarios
5. Guarda

Puedes actualizar nombre, contacto y email.

¿Te ayudo con algo más?`},
}

const editMenuText = `✏️ **Editar Registros**

¿Qué quieres editar?

📦 **Productos:** "Editar producto"
👥 **Clientes:** "Editar cliente"
🏭 **Proveedores:** "Editar proveedor"

En cada sección usa el botón de editar (✏️) del registro.`

var deleteGuides = []guide{
	{nounProduct, `🗑️ **Eliminar Producto**

1. Abre la sección "Productos"
2. Busca el producto
3. Pulsa el botón de eliminar (🗑️)
4. Confirma

⚠️ **Atención:** no se puede deshacer.

¿Te ayudo con algo más?`},
	{nounClient, `🗑️ **Eliminar Cliente**

1. Abre la sección "Clientes"
2. Busca el cliente
3. Pulsa el botón de eliminar (🗑️)
4. Confirma

⚠️ **Atención:** no se puede deshacer.

¿Quieres saber algo más?`},
	{nounProvider, `🗑️ **Eliminar Proveedor**

1. Abre la sección "Proveedores"
2. Busca el proveedor
3. Pulsa el botón de eliminar (🗑️)
4. Confirma

⚠️ **Atención:** no se puede deshacer.

¿Te ayudo con algo más?`},
}

const deleteMenuText = `🗑️ **Eliminar Registros**

¿Qué quieres eliminar?

📦 **Productos:** "Eliminar producto"
👥 **Clientes:** "Eliminar cliente"
🏭 **Proveedores:** "Eliminar proveedor"

⚠️ **Importante:** las eliminaciones son permanentes. Usa el botón de eliminar (🗑️) en la sección correspondiente.`

const listMenuText = `📋 **Ver Información**

¿Qué quieres ver?

📦 **Productos:** "Muestra productos"
👥 **Clientes:** "Muestra clientes"
🏭 **Proveedores:** "Muestra proveedores"
💰 **Ventas:** "Muestra ventas"
🛒 **Compras:** "Muestra compras"
📊 **Gráficas y estadísticas:** "Muestra gráficas" o "Análisis general"

💡 Pregunta "muestra gráficas" para ver las visualizaciones disponibles.`
