/*
Package transform rewrites a collection document into its parameterized,
test-instrumented variant.

	            +----------------+
	            |   Transform    |
	            | (parse, guard, |
	            |   serialize)   |
	            +-------+--------+
	                    |
	            +-------+--------+
	            |  ProcessItems  |
	            | (tree rewrite) |
	            +-------+--------+
	                    |
	     +--------------+---------------+
	     |              |               |
	+----+-----+  +-----+------+  +-----+------------+
	| Process  |  | rewriteURL |  | AddTestsToRequest|
	| Headers  |  |            |  | (+ Generate      |
	+----------+  +------------+  |  ResponseTests)  |
	                              +------------------+

🎯 Purpose:
  - Expand every request into one item per saved response example
  - Inject status, response-time and per-field assertions into test scripts
  - Move custom header values into named variables
  - Template the base URL

🔄 Flow:
 1. Parse the document; reject names containing the _Version marker
 2. Rename to <name>_<version> and tag the description
 3. Pick the variable list: the collection's (ModeCollection) or a new
    environment document's (ModeEnvironment)
 4. Walk the tree, rewriting headers and URLs, cloning per example
 5. Serialize the collection, and the environment when there is one

⚡ Guarantees:
  - No I/O and no shared state: concurrent calls with their own inputs are safe
  - Instrumenting twice adds nothing the first pass already added
  - A header name becomes one variable, holding the first value seen
  - A response body that is not JSON only costs that item its field assertions

🔍 Example:

	res, err := transform.Transform(ctx, raw, transform.Options{
		Version:     "Version2",
		Mode:        transform.ModeEnvironment,
		URLVariable: "apiUrl",
	})
	if errors.Is(err, transform.ErrAlreadyProcessed) {
		// the input is our own output
	}
*/
package transform
