// Package site holds the static portfolio content: the hero, about,
// services, and contact sections the frontend renders around the gallery
// browser. The content is data, not markup; the frontend decides layout.
package site
