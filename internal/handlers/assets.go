package handlers

import "net/http"

// assetRedirects maps the fixed image routes onto their static asset
// paths, mirroring the site's top-level image URLs.
var assetRedirects = map[string]string{
	"/background.jpg":    "/static/distance/foto_no_exif.jpg",
	"/compose.png":       "/static/distance/oie_transparent.png",
	"/logo.png":          "/static/distance/Logo.png",
	"/favicon.png":       "/static/distance/favicon.png",
	"/favicon_apple.png": "/static/distance/favicon_apple.png",
	"/menu.png":          "/static/distance/Menu.png",
}

// AssetRedirect returns a handler redirecting a fixed asset route.
func AssetRedirect(target string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, target, http.StatusMovedPermanently)
	}
}

// AssetRoutes exposes the full redirect table for route registration.
func AssetRoutes() map[string]string {
	return assetRedirects
}
