// Package templates holds named template bodies and renders them against
// substitution contexts.
//
// Placeholders use the {{var}} form. Rendering is strict: a placeholder whose
// key is absent from the context fails with an E_TEMPLATE_RENDER error rather
// than producing an empty string.
package templates
