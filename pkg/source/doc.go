// Package source finds and reads the collection documents a run transforms.
//
//	            +-------------+
//	            |   Source    |
//	            | (registry)  |
//	            +------+------+
//	                   |
//	     +-------------+-------------+
//	     |             |             |
//	+----+----+   +----+----+   +----+-----+
//	|  File   |   |  HTTP   |   |  GitHub  |
//	| + globs |   |         |   | contents |
//	+---------+   +---------+   +----------+
//
// 🎯 Purpose:
//   - Turn command-line locations into a sorted list of documents
//   - Read each document's raw bytes from wherever it lives
//
// 🔄 Flow:
//  1. SchemeOf picks a provider for every location
//  2. The provider's Resolve expands globs and directories
//  3. Fetch reads one resolved document
//
// 🤝 Providers register themselves by scheme in init. The github provider lives in
// its own package and is enabled with a blank import:
//
//	import _ "github.com/walteh/collectionlint/pkg/source/github"
//
// 🔍 Example:
//
//	docs, err := source.Resolve(ctx, []string{"collections/**/*.json"})
//	for _, doc := range docs {
//		raw, err := source.Fetch(ctx, doc)
//	}
package source
