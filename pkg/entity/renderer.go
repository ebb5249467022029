package entity

// Renderer draws world entities. Implementations live in pkg/render.
type Renderer interface {
	RenderShip(ship *Ship)
	RenderPlanet(planet *Planet)
	RenderDock(dock *Dock)
	Clear()
	Present()
}
