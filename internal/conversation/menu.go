package conversation

import "strings"

var resetKeywords = []string{"hola", "menu", "menú", "inicio"}

func isResetKeyword(text string) bool {
	t := strings.ToLower(strings.TrimSpace(text))
	for _, kw := range resetKeywords {
		if t == kw {
			return true
		}
	}
	return false
}

const mainMenu = "👋 ¡Bienvenido al bot de inventario!\n" +
	"Elige una opción:\n" +
	"1️⃣ Ver productos\n" +
	"2️⃣ Filtrar por código\n" +
	"3️⃣ Agregar producto\n" +
	"4️⃣ Actualizar producto\n" +
	"5️⃣ Eliminar producto\n" +
	"6️⃣ Registrar entrada\n" +
	"7️⃣ Registrar salida\n" +
	"8️⃣ Reporte\n" +
	"9️⃣ Sugerencias de compra\n" +
	"0️⃣ Revisar stock mínimo / vencimiento"

const fallbackReply = "🤔 No entendí tu mensaje. Envía *menu* para ver las opciones."

const errorReply = "⚠️ Ocurrió un problema al consultar tus datos. Intenta de nuevo en unos minutos."

const noSheetReply = "❌ No encontré una hoja de inventario asociada a tu número. " +
	"Escríbenos para activar tu cuenta."

// Category menus for the add flow. The digit the user picks becomes the
// first character of the product code, so each family keeps its own code
// space per perishability branch.
var perishableCategories = []string{
	"Alimentos frescos", "Lácteos", "Panadería", "Carnes", "Otros perecederos",
}

var nonPerishableCategories = []string{
	"Abarrotes", "Limpieza", "Higiene", "Bebidas", "Otros",
}

func categoryMenu(perishable bool) string {
	cats := nonPerishableCategories
	if perishable {
		cats = perishableCategories
	}
	var b strings.Builder
	b.WriteString("Elige la categoría:\n")
	for i, c := range cats {
		b.WriteString(numberEmoji(i+1) + " " + c + "\n")
	}
	return strings.TrimRight(b.String(), "\n")
}

func categoryByDigit(perishable bool, digit string) (string, bool) {
	cats := nonPerishableCategories
	if perishable {
		cats = perishableCategories
	}
	idx := parseIntValue(digit)
	if idx < 1 || idx > len(cats) {
		return "", false
	}
	return cats[idx-1], true
}

func numberEmoji(n int) string {
	emojis := []string{"0️⃣", "1️⃣", "2️⃣", "3️⃣", "4️⃣", "5️⃣", "6️⃣", "7️⃣", "8️⃣", "9️⃣"}
	if n >= 0 && n < len(emojis) {
		return emojis[n]
	}
	return "▪️"
}
