package contracts

const linkABI = `
[
  {
    "name": "createLink",
    "type": "function",
    "stateMutability": "payable",
    "inputs": [
      { "name": "_secretHash", "type": "bytes32" },
      { "name": "_token", "type": "address" },
      { "name": "_amount", "type": "uint256" }
    ],
    "outputs": []
  },
  {
    "name": "claimLink",
    "type": "function",
    "stateMutability": "nonpayable",
    "inputs": [
      { "name": "_secret", "type": "string" },
      { "name": "_recipient", "type": "address" }
    ],
    "outputs": []
  },
  {
    "name": "LinkCreated",
    "type": "event",
    "anonymous": false,
    "inputs": [
      { "name": "creator", "type": "address", "indexed": true },
      { "name": "secretHash", "type": "bytes32", "indexed": true },
      { "name": "token", "type": "address", "indexed": false },
      { "name": "amount", "type": "uint256", "indexed": false }
    ]
  },
  {
    "name": "LinkClaimed",
    "type": "event",
    "anonymous": false,
    "inputs": [
      { "name": "claimer", "type": "address", "indexed": true },
      { "name": "secretHash", "type": "bytes32", "indexed": true }
    ]
  }
]
`
