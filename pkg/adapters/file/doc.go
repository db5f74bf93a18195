/*
Package file loads table definitions from YAML and persists table state as JSON files.

A definition file describes one table of records:

	name: people
	title: People
	rowId: id
	fallback: "-"
	columns:
	  - id: name
	    header: Name
	  - id: age
	    header: Age
	    format: "%v years"
	  - id: email
	    hidden: true
	initialState:
	  pagination: {pageIndex: 0, pageSize: 20}
	data:
	  - {id: 1, name: Ada, age: 36, email: ada@example.com}

Watch turns a definition file into a reactive configuration source that
re-emits whenever the file changes.
*/
package file
