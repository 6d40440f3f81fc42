// Package publish stores compiled documents in MongoDB.
//
// A published document is keyed by the hash of its serialized bytes, so
// publishing the same compile twice replaces one record instead of adding a
// second. Every publish stamps a fresh run id and timestamp on the record.
//
// The [Publisher] talks to a [Sink]; [MongoSink] is the production sink and
// tests substitute their own.
package publish
