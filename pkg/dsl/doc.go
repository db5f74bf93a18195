/*
Package dsl provides a fluent builder for table options.

It is an alternative to YAML definitions for tables declared in Go: column
order follows declaration order, and Build reports column mistakes before an
engine ever sees them.

Example usage:

	b := dsl.New[person]()
	b.Column("name").Header("Name")
	b.Column("age").Header("Age").Format("%d years")
	b.Column("email").Hidden()

	opts, err := b.Data(people...).Fallback("-").Sort("name", false).Build()
	if err != nil {
		return err
	}
	table, err := tabula.New(tabula.Static(opts))
*/
package dsl
