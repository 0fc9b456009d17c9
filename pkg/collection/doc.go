/*
Package collection models Postman Collection v2.x documents and their companion
environment documents.

Only the members the transformation reads or writes are typed. Everything else (method,
body, auth, protocolProfileBehavior, _postman_id, ...) is kept in an Extra on the
owning type and written back verbatim. Extra also records the member order of the
source object, so a decode/encode cycle neither loses data nor reorders it.

Item lists decode into Nodes, a tagged union of *Folder and *RequestItem:

	for _, n := range c.Item {
		switch n := n.(type) {
		case *collection.Folder:
			// n.Item holds the children
		case *collection.RequestItem:
			// n.Request, n.Response
		}
	}
*/
package collection
