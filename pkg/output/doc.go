/*
Package output writes transformed documents and tracks what each write did.

	            +-------------+
	            |   Output    |
	            |  (Manager)  |
	            +------+------+
	                   |
	      +------------+------------+
	      |                         |
	+-----+-----+            +------+------+
	|   Files   |            |  Formatter  |
	| (atomic)  |            |  (UI/UX)    |
	+-----------+            +-------------+

🎯 Purpose:
  - Name output files after the transformed collection
  - Write them atomically, skipping files that already hold the same bytes
  - Report new, modified, unchanged and failed documents

⚡ Guarantees:
  - A reader never sees a half-written document: content goes to a unique temp file first
  - Within one run a path is written once; a second source mapping to it fails with ErrPathCollision
  - Dry-run managers compute statuses without touching the disk
  - Safe for concurrent use by the batch runner

🔍 Example:

	mgr := output.New("out", zerolog.Ctx(ctx))
	info, err := mgr.Write(ctx, output.CollectionFileName(res.NewName), res.Collection)
*/
package output
