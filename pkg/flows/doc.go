// Package flows loads declarative wizard definitions. A flow lists ordered
// steps, each naming the API operation whose request body it collects and the
// subset of fields it renders. Flows are read from JSON or YAML documents and
// converted to wizard steps by the host.
package flows
