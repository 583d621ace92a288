// Command bindery manages comic subscriptions: subscribe to works on
// supported sites, refresh their volume lists, and download pending
// volumes into a local library.
package main
