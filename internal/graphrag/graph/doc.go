// Package graph is the boundary to the investigation graph store.
//
// The engine reads only, so GraphClient exposes nothing beyond connection
// lifecycle, health and parameterized queries that return flat records.
// Neo4jClient talks to Neo4j over Bolt; MockGraphClient serves canned or
// computed rows in tests; TracedGraphClient wraps either with a span per
// call.
//
//	client, err := graph.NewNeo4jClient(cfg)
//	if err != nil {
//		return err
//	}
//	if err := client.Connect(ctx); err != nil {
//		return err
//	}
//	defer client.Close(ctx)
//
//	rows, err := client.Query(ctx,
//		"MATCH (o:Organization {name: $name})<-[:MEMBER_OF]-(p:Person) RETURN p.name AS member",
//		map[string]any{"name": "West Side Crew"})
//
// Failures carry the ErrCodeGraph* codes. IsConnectionError tells an
// unreachable store apart from a failed statement.
package graph
