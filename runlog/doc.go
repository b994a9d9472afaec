// Package runlog keeps a ledger of pipeline runs.
//
// Every completed run can be recorded with its strategy, worker count, active
// voxel count, verdict and timing, so runs of different strategies over the
// same dataset can be compared later. MemoryRecorder keeps records in process;
// DynamoRecorder writes them to a DynamoDB table with conditional puts, so a
// run id is never recorded twice.
//
// Table schema for DynamoRecorder:
//
//	aws dynamodb create-table \
//	  --table-name voxsort-runs \
//	  --attribute-definitions AttributeName=dataset,AttributeType=S AttributeName=run_id,AttributeType=S \
//	  --key-schema AttributeName=dataset,KeyType=HASH AttributeName=run_id,KeyType=RANGE \
//	  --billing-mode PAY_PER_REQUEST
package runlog
