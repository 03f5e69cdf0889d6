// Package render lays out the dashboard charts as keyed scenes and turns
// successive scenes into animated frames for the browser.
//
// A chart's Layout is a pure function of its data, the surface size and
// the hovered key. Diff reconciles the previous scene with the new one by
// node key so entering, persisting and exiting elements animate
// independently. The browser only applies the resulting ops.
package render
