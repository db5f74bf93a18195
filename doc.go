/*
Package tabula keeps a headless table engine in sync with reactive stores.

A headless engine owns the table logic (columns, rows, state features) and
exposes a pull-based view plus an OnStateChange callback. UI layers want
push-based stores instead. An adapter bridges both: it creates the engine
once, tracks the state the engine reports, merges it with the externally
supplied configuration and re-emits the engine after every synchronization.

# Concept

The configuration source is either Static or Reactive. Externally supplied
state keys always win over the state tracked by the adapter, key by key:

	local state     {sorting: [...], pagination: {0, 10}}
	external state  {pagination: {2, 10}}
	engine state    {sorting: [...], pagination: {2, 10}}

The merge is shallow. A nested value under a shared key is replaced, never
merged.

Synchronization is lazy: nothing is pushed into the engine until the returned
store has a subscriber, and it stops when the last subscriber leaves.

# Usage

	type person struct {
		Name string
		Age  int
	}

	table, err := tabula.New(tabula.Static(domain.Options[person]{
		Data: []person{{"Ada", 36}},
		Columns: []domain.ColumnDef[person]{
			{AccessorKey: "name", Header: "Name"},
			{AccessorKey: "age", Header: "Age"},
		},
	}))
	if err != nil {
		log.Fatal(err)
	}

	unsubscribe := table.Subscribe(func(e *tabula.Engine[person]) {
		headers, rows := e.Grid()
		fmt.Println(headers, rows)
	})
	defer unsubscribe()

Cell and header content is resolved through package render, which accepts
plain values, components and factories and normalizes them to one shape.

Any engine satisfying ports.Engine can be driven through NewAdapter.
*/
package tabula
