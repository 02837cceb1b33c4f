// Package topology models an HVAC, plumbing or refrigeration loop as a
// directed component graph.
//
// # Overview
//
// A loop has two sides. The supply side runs from its inlet node through an
// optional splitter/mixer pair to one or two outlet nodes. The demand side
// runs from one or two inlet nodes through its own splitter/mixer pair to a
// single outlet node. Components are connected by directed edges in flow
// direction; the two sides are not connected to each other.
//
// # Basic Usage
//
//	l := topology.New("Chilled Water Loop", topology.KindPlant)
//	l.AddComponent(topology.Component{ID: "in", Category: topology.CategoryNode})
//	l.AddComponent(topology.Component{ID: "pump", Category: topology.CategoryStraight})
//	l.Connect("in", "pump")
//
// Query the graph with [Loop.Outlets], [Loop.Inlets] and
// [Loop.OrderedComponentsBetween]. Use [Loop.Validate] once the loop is
// assembled; the layout engine assumes a validated loop.
//
// # Categories
//
// Every component carries a [Category] resolved once when the loop is built.
// Categories are open strings so that a topology file may name a category the
// layout engine has no shape for; the engine reports that as an unsupported
// component kind rather than the loader rejecting it.
//
// # Concurrency
//
// A Loop is not safe for concurrent mutation. Concurrent readers are fine
// once construction is complete.
package topology
