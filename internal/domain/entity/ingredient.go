package entity

// Ingredient representa una materia prima. Es siempre hoja del grafo de recetas:
// un ingrediente nunca tiene receta propia.
type Ingredient struct {
	ID       int64
	Name     string
	BaseUnit string // unidad a la que se normaliza el inventario al almacenar
}
