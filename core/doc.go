// Package cpio reads and writes "old binary" cpio archives.
//
// An archive is a concatenation of records, each a 26-byte header of thirteen
// 16-bit fields followed by the NUL-terminated name and the content, both
// padded to an even length. The archive ends with a record named
// "TRAILER!!!". There is no index: records are only reachable by scanning.
//
// [Writer] and [Reader] give record-level access in the manner of
// archive/tar. [Create], [CreateFromFiles], [CreateFromDir] and
// [CreateFromDeviceData] build whole archives; [Extract] materializes one
// below a directory and returns a [Session] describing what was written.
// [IsHeaderValid] and [IsDataValid] are cheap magic-number probes.
//
// Every 16-bit field is little-endian by default. The 32-bit modification
// time and size are stored as two fields, high half first.
package cpio
