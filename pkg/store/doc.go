/*
Package store provides reactive value containers.

A store holds a value and pushes every change to its subscribers. Subscribing
delivers the current value synchronously before Subscribe returns, so a
subscriber never starts from an unknown state:

	count := store.NewWritable(0, nil)
	unsubscribe := count.Subscribe(func(v int) {
		fmt.Println("count:", v)
	})
	count.Set(1)
	unsubscribe()

Stores created with a StartFunc are lazy: the StartFunc runs when the first
subscriber arrives and its StopFunc when the last one leaves. Derived2 uses
this to combine two stores without holding subscriptions nobody listens to.

Notifications are delivered in subscription order through a single queue:
a Set issued by a subscriber is delivered after the current delivery returns,
never in the middle of it.
*/
package store
