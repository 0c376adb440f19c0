// Package fixture loads mailbox items from YAML documents. It stands in for a
// container reader in tests and on the command line.
//
// A fixture is a folder tree. Attachment bytes and embedded messages may be
// given inline, or stored once under blobs and messages and referenced by id,
// the way a container keeps them apart from the items that refer to them:
//
//	name: pst
//	item_count: 2
//	folders:
//	  - name: Inbox
//	    items:
//	      - type: note
//	        subject: Hello
//	        body: Hi there.
//	        email:
//	          sender: alice@example.com
//	          sent: 2009-02-13T23:31:30Z
//	        attachments:
//	          - filename: notes.txt
//	            id: 7
//	blobs:
//	  7: remember the milk
package fixture
