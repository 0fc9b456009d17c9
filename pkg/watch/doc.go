/*
Package watch re-runs a transform when local collections change.

Directory and glob sources are watched recursively with fsnotify. A document
is handed to the handler once it has been quiet for the debounce duration,
so an editor's burst of writes produces one run. Files the handler reports
as written are never reported back, which keeps an output directory inside
a watched tree from feeding itself.
*/
package watch
