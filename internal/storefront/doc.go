// Package storefront contiene el estado del lado cliente de la tienda: catálogo, carrito y sesión.
//
// Store es la única instancia de estado del proceso; toda mutación pasa por sus métodos y se
// serializa con un mutex. Los cambios se notifican a un Renderer con copias del estado, fuera del
// lock. SessionManager y CatalogLoader hablan con la API por HTTP y vuelcan el resultado en el Store.
package storefront
