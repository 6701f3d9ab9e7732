// Package io provides the JSON document format of nodeweave scenes.
//
// # Overview
//
// One document shape serves files, history snapshots, clipboard payloads
// and store entries:
//
//	{
//	  "id": "0b6c...",
//	  "scene_width": 64000,
//	  "scene_height": 64000,
//	  "nodes": [
//	    {
//	      "id": 1, "title": "float", "pos_x": 0, "pos_y": 0,
//	      "node_type": 1, "is_var": true, "is_setter": false,
//	      "inputs": [],
//	      "outputs": [
//	        {"id": 2, "index": 0, "multi_edges": true, "position": 4, "socket_type": 1}
//	      ],
//	      "content": {}
//	    }
//	  ],
//	  "edges": [
//	    {"id": 7, "start_socket_id": 2, "end_socket_id": 5}
//	  ]
//	}
//
// Socket positions are 1 (left-top) to 6 (right-bottom). Documents written
// before "multi_edges" existed are accepted: such sockets accept multiple
// edges exactly when anchored right-top or right-bottom.
//
// # Serialization
//
// [Serialize] captures a whole scene, [SerializeItems] a selected subgraph
// including only the edges internal to it.
//
// # Deserialization
//
// [Deserialize] turns a document into a [graph.Fragment] in two phases,
// nodes with their sockets first, then edges, with IDs resolved through a
// [Resolver]. [Load] replaces a scene's content keeping stored IDs; [Merge]
// inserts with fresh IDs. Both apply the fragment as a whole, so a document
// with a dangling edge or a duplicate ID leaves the scene untouched.
//
// # Files
//
//	doc, err := io.ImportJSON("graph.json")
//	if err != nil {
//	    log.Fatal(err)
//	}
//	err = io.ExportJSON(io.Serialize(scene), "copy.json")
//
// [Parse] rejects invalid JSON and payloads without a "nodes" key with a
// MALFORMED_DOCUMENT error.
package io
